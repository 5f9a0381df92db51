package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mveld/empadmin/internal/dependencies/mocks"
	"github.com/mveld/empadmin/internal/events"
	"github.com/mveld/empadmin/internal/model"
	"github.com/mveld/empadmin/internal/storage/memory"
	"github.com/mveld/empadmin/internal/testutil"
)

type recordingAnnouncer struct {
	messages []string
	err      error
}

func (r *recordingAnnouncer) Say(ctx context.Context, message string) error {
	if r.err != nil {
		return r.err
	}
	r.messages = append(r.messages, message)
	return nil
}

type ScheduleSuite struct {
	suite.Suite
	storage   *memory.Storage
	announcer *recordingAnnouncer
	clock     *mocks.MockClock
	ctx       context.Context
}

func TestScheduleSuite(t *testing.T) {
	suite.Run(t, new(ScheduleSuite))
}

func (s *ScheduleSuite) SetupTest() {
	s.storage = memory.New()
	s.announcer = &recordingAnnouncer{}
	s.clock = mocks.NewMockClock(time.Date(2026, 3, 1, 7, 59, 0, 0, time.UTC))
	s.ctx = context.Background()
}

func (s *ScheduleSuite) newController(slots ...model.ScheduleSlot) *Controller {
	var table [model.MaxScheduleSlots]model.ScheduleSlot
	copy(table[:], slots)
	hub := events.NewHub(testutil.NopLogger(), s.clock)
	return NewController(table, s.announcer, s.storage, hub, testutil.NopLogger())
}

func intervalSlot(body string, interval time.Duration) model.ScheduleSlot {
	return model.ScheduleSlot{Enabled: true, Body: body, Trigger: model.TriggerInterval, Interval: interval}
}

func dailySlot(body string, hour, minute int) model.ScheduleSlot {
	return model.ScheduleSlot{Enabled: true, Body: body, Trigger: model.TriggerDaily, Hour: hour, Minute: minute}
}

func (s *ScheduleSuite) TestIntervalSlotFiresOnFirstTick() {
	controller := s.newController(intervalSlot("restart in 10", 30*time.Minute))

	s.Require().NoError(controller.Tick(s.ctx, s.clock.Now()))
	s.Equal([]string{"restart in 10"}, s.announcer.messages)
}

func (s *ScheduleSuite) TestIntervalSlotWaitsFullInterval() {
	controller := s.newController(intervalSlot("tip", 30*time.Minute))

	now := s.clock.Now()
	s.Require().NoError(controller.Tick(s.ctx, now))
	s.Require().NoError(controller.Tick(s.ctx, now.Add(time.Minute)))
	s.Require().NoError(controller.Tick(s.ctx, now.Add(29*time.Minute)))
	s.Len(s.announcer.messages, 1)

	s.Require().NoError(controller.Tick(s.ctx, now.Add(30*time.Minute)))
	s.Len(s.announcer.messages, 2)
}

func (s *ScheduleSuite) TestDailySlotFiresOnlyInItsMinute() {
	controller := s.newController(dailySlot("good morning", 8, 0))

	s.Require().NoError(controller.Tick(s.ctx, time.Date(2026, 3, 1, 7, 59, 0, 0, time.UTC)))
	s.Empty(s.announcer.messages)

	s.Require().NoError(controller.Tick(s.ctx, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)))
	s.Equal([]string{"good morning"}, s.announcer.messages)

	s.Require().NoError(controller.Tick(s.ctx, time.Date(2026, 3, 1, 8, 1, 0, 0, time.UTC)))
	s.Len(s.announcer.messages, 1)
}

func (s *ScheduleSuite) TestDailySlotFiresOncePerDay() {
	controller := s.newController(dailySlot("good morning", 8, 0))

	fireTime := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	s.Require().NoError(controller.Tick(s.ctx, fireTime))
	// A second tick landing in the same minute must not re-fire
	s.Require().NoError(controller.Tick(s.ctx, fireTime.Add(20*time.Second)))
	s.Len(s.announcer.messages, 1)

	s.Require().NoError(controller.Tick(s.ctx, fireTime.AddDate(0, 0, 1)))
	s.Len(s.announcer.messages, 2)
}

func (s *ScheduleSuite) TestDailySlotSurvivesRestart() {
	controller := s.newController(dailySlot("good morning", 8, 0))
	fireTime := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	s.Require().NoError(controller.Tick(s.ctx, fireTime))
	s.Len(s.announcer.messages, 1)

	// Same storage, new process
	restarted := s.newController(dailySlot("good morning", 8, 0))
	s.Require().NoError(restarted.Tick(s.ctx, fireTime.Add(30*time.Second)))
	s.Len(s.announcer.messages, 1)
}

func (s *ScheduleSuite) TestDisabledSlotNeverFires() {
	slot := intervalSlot("tip", time.Minute)
	slot.Enabled = false
	controller := s.newController(slot)

	s.Require().NoError(controller.Tick(s.ctx, s.clock.Now()))
	s.Empty(s.announcer.messages)
}

func (s *ScheduleSuite) TestSendFailureStillStampsSlot() {
	s.announcer.err = errors.New("server unreachable")
	controller := s.newController(intervalSlot("tip", 30*time.Minute))

	now := s.clock.Now()
	s.Require().NoError(controller.Tick(s.ctx, now))

	// The attempt counts: the slot does not retry within its window
	s.announcer.err = nil
	s.Require().NoError(controller.Tick(s.ctx, now.Add(time.Minute)))
	s.Empty(s.announcer.messages)

	s.Require().NoError(controller.Tick(s.ctx, now.Add(30*time.Minute)))
	s.Len(s.announcer.messages, 1)
}

func (s *ScheduleSuite) TestMultipleSlotsIndependent() {
	controller := s.newController(
		intervalSlot("every 10", 10*time.Minute),
		dailySlot("daily", 8, 0),
		intervalSlot("every 30", 30*time.Minute),
	)

	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	s.Require().NoError(controller.Tick(s.ctx, now))
	s.Equal([]string{"every 10", "daily", "every 30"}, s.announcer.messages)

	s.Require().NoError(controller.Tick(s.ctx, now.Add(10*time.Minute)))
	s.Equal([]string{"every 10", "daily", "every 30", "every 10"}, s.announcer.messages)
}

// blockingAnnouncer parks inside Say until released, signalling entry
type blockingAnnouncer struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingAnnouncer) Say(ctx context.Context, message string) error {
	close(b.started)
	<-b.release
	return nil
}

func (s *ScheduleSuite) TestSlotEditsNotBlockedByInFlightSend() {
	announcer := &blockingAnnouncer{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	var table [model.MaxScheduleSlots]model.ScheduleSlot
	table[0] = intervalSlot("tip", 30*time.Minute)
	hub := events.NewHub(testutil.NopLogger(), s.clock)
	controller := NewController(table, announcer, s.storage, hub, testutil.NopLogger())

	tickDone := make(chan error, 1)
	go func() {
		tickDone <- controller.Tick(s.ctx, s.clock.Now())
	}()

	select {
	case <-announcer.started:
	case <-time.After(2 * time.Second):
		s.T().Fatal("send never started")
	}

	// The send is parked; reads and edits must still go through
	edited := make(chan error, 1)
	go func() {
		edited <- controller.UpdateSlot(s.ctx, 1, dailySlot("news", 9, 0))
	}()
	select {
	case err := <-edited:
		s.NoError(err)
	case <-time.After(2 * time.Second):
		s.T().Fatal("UpdateSlot blocked behind the in-flight send")
	}

	slots, err := controller.Slots(s.ctx)
	s.Require().NoError(err)
	s.Equal("news", slots[1].Slot.Body)

	close(announcer.release)
	s.NoError(<-tickDone)
}

func (s *ScheduleSuite) TestUpdateSlot() {
	controller := s.newController()

	s.Require().NoError(controller.UpdateSlot(s.ctx, 2, intervalSlot("new tip", 5*time.Minute)))

	slots, err := controller.Slots(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(slots, model.MaxScheduleSlots)
	s.Equal("new tip", slots[2].Slot.Body)
	s.True(slots[2].LastFired.IsZero())
}

func (s *ScheduleSuite) TestUpdateSlotOutOfRange() {
	controller := s.newController()
	err := controller.UpdateSlot(s.ctx, model.MaxScheduleSlots, intervalSlot("tip", time.Minute))
	s.ErrorIs(err, model.ErrSlotOutOfRange)
}

func (s *ScheduleSuite) TestUpdateSlotRejectsInvalid() {
	controller := s.newController()
	err := controller.UpdateSlot(s.ctx, 0, intervalSlot("tip", time.Second))
	s.Error(err)
}
