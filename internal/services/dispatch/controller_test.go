package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mveld/empadmin/internal/dependencies/mocks"
	"github.com/mveld/empadmin/internal/events"
	"github.com/mveld/empadmin/internal/model"
	"github.com/mveld/empadmin/internal/testutil"
)

type fakeAnnouncer struct {
	messages []string
	err      error
}

func (f *fakeAnnouncer) Say(ctx context.Context, message string) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, message)
	return nil
}

func newTestController(cfg Config, announcer Announcer) (*Controller, *events.Hub) {
	clk := mocks.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	hub := events.NewHub(testutil.NopLogger(), clk)
	return NewController(cfg, announcer, hub, testutil.NopLogger()), hub
}

func arrived(name string) model.PresenceDelta {
	return model.PresenceDelta{
		ID:         "101",
		Transition: model.TransitionArrived,
		Record:     model.PlayerRecord{ID: "101", Name: name, Status: model.StatusOnline},
	}
}

func departed(name string) model.PresenceDelta {
	return model.PresenceDelta{
		ID:         "101",
		Transition: model.TransitionDeparted,
		Record:     model.PlayerRecord{ID: "101", Name: name, Status: model.StatusOffline},
	}
}

func TestRenderTemplate(t *testing.T) {
	tests := []struct {
		name     string
		template string
		player   string
		want     string
	}{
		{"token substituted", "Welcome, <playername>!", "Nova", "Welcome, Nova!"},
		{"token repeated", "<playername> <playername>", "Nova", "Nova Nova"},
		{"no token", "Server restarting soon", "Nova", "Server restarting soon"},
		{"angle brackets in name", "Hi <playername>", "<Nova>", "Hi <Nova>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderTemplate(tt.template, tt.player))
		})
	}
}

func TestDispatchSendsWelcomeAndGoodbye(t *testing.T) {
	announcer := &fakeAnnouncer{}
	controller, _ := newTestController(Config{
		WelcomeTemplate: "Welcome, <playername>!",
		GoodbyeTemplate: "<playername> left.",
	}, announcer)

	controller.Dispatch(context.Background(), []model.PresenceDelta{
		arrived("Nova"),
		departed("Rook"),
	})

	require.Len(t, announcer.messages, 2)
	assert.Equal(t, "Welcome, Nova!", announcer.messages[0])
	assert.Equal(t, "Rook left.", announcer.messages[1])
}

func TestDispatchPublishesPresenceEvents(t *testing.T) {
	controller, hub := newTestController(Config{WelcomeTemplate: "hi <playername>"}, &fakeAnnouncer{})

	ch, cancel := hub.Subscribe()
	defer cancel()

	controller.Dispatch(context.Background(), []model.PresenceDelta{arrived("Nova")})

	first := <-ch
	require.Equal(t, model.EventPlayerArrived, first.Type)
	payload, ok := first.Payload.(model.PresencePayload)
	require.True(t, ok)
	assert.Equal(t, "Nova", payload.Player.Name)

	second := <-ch
	assert.Equal(t, model.EventMessageSent, second.Type)
}

func TestDispatchEmptyTemplateSkipsSend(t *testing.T) {
	announcer := &fakeAnnouncer{}
	controller, hub := newTestController(Config{}, announcer)

	ch, cancel := hub.Subscribe()
	defer cancel()

	controller.Dispatch(context.Background(), []model.PresenceDelta{arrived("Nova")})

	assert.Empty(t, announcer.messages)

	// The presence event still goes out
	event := <-ch
	assert.Equal(t, model.EventPlayerArrived, event.Type)
	select {
	case extra := <-ch:
		t.Fatalf("unexpected event %s", extra.Type)
	default:
	}
}

func TestDispatchFailureDoesNotStopRemaining(t *testing.T) {
	announcer := &fakeAnnouncer{err: errors.New("chat channel down")}
	controller, hub := newTestController(Config{
		WelcomeTemplate: "hi <playername>",
	}, announcer)

	ch, cancel := hub.Subscribe()
	defer cancel()

	controller.Dispatch(context.Background(), []model.PresenceDelta{
		arrived("Nova"),
		arrived("Rook"),
	})

	var failed int
	for i := 0; i < 4; i++ {
		event := <-ch
		if event.Type == model.EventMessageFailed {
			failed++
			payload, ok := event.Payload.(model.DeliveryPayload)
			require.True(t, ok)
			assert.Equal(t, "chat channel down", payload.Error)
		}
	}
	assert.Equal(t, 2, failed)
}
