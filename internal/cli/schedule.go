package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mveld/empadmin/internal/model"
)

func newScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Manage scheduled broadcast messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listSchedule()
		},
	}

	cmd.AddCommand(newScheduleListCmd())
	cmd.AddCommand(newScheduleSetCmd())

	return cmd
}

func newScheduleListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the schedule slots",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listSchedule()
		},
	}
}

func listSchedule() error {
	out := NewOutput(cfg.Output)

	var result ScheduleResult
	if err := client.Get("/api/v1/schedule", &result); err != nil {
		out.PrintError(err)
		return err
	}

	out.Print(result)
	return nil
}

func newScheduleSetCmd() *cobra.Command {
	var (
		message string
		every   time.Duration
		at      string
		disable bool
	)

	cmd := &cobra.Command{
		Use:   "set <slot>",
		Short: "Configure one schedule slot",
		Long: fmt.Sprintf(`Configure one of the %d schedule slots. A slot fires either on an
interval (--every 30m) or at a fixed time each day (--at 08:00).
Pass --disable to stop a slot without clearing it.`, model.MaxScheduleSlots),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid slot index %q", args[0])
			}

			var slot model.ScheduleSlot
			if disable {
				slot, err = fetchSlot(index)
				slot.Enabled = false
			} else {
				slot, err = buildSlot(message, every, at)
			}
			if err != nil {
				out.PrintError(err)
				return err
			}

			body := struct {
				Slot model.ScheduleSlot `json:"slot"`
			}{Slot: slot}

			if err := client.Put(fmt.Sprintf("/api/v1/schedule/%d", index), body, nil); err != nil {
				out.PrintError(err)
				return err
			}

			if disable {
				out.PrintMessage(fmt.Sprintf("Slot %d disabled", index))
			} else {
				out.PrintMessage(fmt.Sprintf("Slot %d updated", index))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Message body to broadcast")
	cmd.Flags().DurationVar(&every, "every", 0, "Fire on an interval, e.g. 30m, 2h")
	cmd.Flags().StringVar(&at, "at", "", "Fire daily at a fixed time, e.g. 08:00")
	cmd.Flags().BoolVar(&disable, "disable", false, "Disable the slot")

	return cmd
}

// fetchSlot reads the current definition of one slot so a disable can
// keep the message and trigger intact.
func fetchSlot(index int) (model.ScheduleSlot, error) {
	var result ScheduleResult
	if err := client.Get("/api/v1/schedule", &result); err != nil {
		return model.ScheduleSlot{}, err
	}
	for _, status := range result.Slots {
		if status.Index == index {
			return model.ScheduleSlot{
				Enabled:  status.Slot.Enabled,
				Body:     status.Slot.Body,
				Trigger:  model.TriggerKind(status.Slot.Trigger),
				Interval: status.Slot.Interval,
				Hour:     status.Slot.Hour,
				Minute:   status.Slot.Minute,
			}, nil
		}
	}
	return model.ScheduleSlot{}, fmt.Errorf("slot %d not found", index)
}

func buildSlot(message string, every time.Duration, at string) (model.ScheduleSlot, error) {
	slot := model.ScheduleSlot{
		Enabled: true,
		Body:    message,
	}

	switch {
	case every > 0 && at != "":
		return slot, fmt.Errorf("--every and --at are mutually exclusive")
	case every > 0:
		slot.Trigger = model.TriggerInterval
		slot.Interval = every
	case at != "":
		hour, minute, err := parseClock(at)
		if err != nil {
			return slot, err
		}
		slot.Trigger = model.TriggerDaily
		slot.Hour = hour
		slot.Minute = minute
	default:
		return slot, fmt.Errorf("one of --every or --at is required")
	}

	return slot, nil
}

func parseClock(s string) (hour, minute int, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("time %q out of range", s)
	}
	return hour, minute, nil
}
