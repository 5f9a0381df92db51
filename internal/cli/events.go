package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Tail the live admin event feed",
		Long: `Stream the daemon's event feed: player joins and leaves, message
deliveries, connection changes and entity refreshes. Runs until
interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			if err := streamEvents(out); err != nil {
				out.PrintError(err)
				return err
			}
			return nil
		},
	}
}

// eventFrame is one decoded feed event
type eventFrame struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

func streamEvents(out *Output) error {
	req, err := http.NewRequest(http.MethodGet, cfg.ServerURL+"/api/v1/events", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	if cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.Token)
	}

	// No client timeout: the stream stays open until interrupted
	httpClient := &http.Client{}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from event stream", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		var frame eventFrame
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &frame); err != nil {
			continue
		}
		printEvent(out, frame)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("event stream closed: %w", err)
	}
	return nil
}

func printEvent(out *Output, frame eventFrame) {
	if cfg.Output == "json" {
		out.Print(frame)
		return
	}

	detail := ""
	switch frame.Type {
	case "player_arrived", "player_departed":
		var p struct {
			Player struct {
				Name string `json:"name"`
			} `json:"player"`
		}
		if json.Unmarshal(frame.Payload, &p) == nil {
			detail = p.Player.Name
		}
	case "message_sent", "message_failed":
		var d struct {
			Kind    string `json:"kind"`
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.Unmarshal(frame.Payload, &d) == nil {
			detail = fmt.Sprintf("[%s] %s", d.Kind, d.Message)
			if d.Error != "" {
				detail += " error=" + d.Error
			}
		}
	case "connection_up", "connection_down":
		var c struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(frame.Payload, &c) == nil {
			detail = c.Detail
		}
	case "players_updated":
		detail = playersUpdatedDetail(frame.Payload)
	case "entities_updated":
		var e struct {
			Entities []json.RawMessage `json:"entities"`
		}
		if json.Unmarshal(frame.Payload, &e) == nil {
			detail = fmt.Sprintf("%d entities", len(e.Entities))
		}
	}

	line := fmt.Sprintf("%s %-18s", frame.Timestamp.Format("15:04:05"), frame.Type)
	if detail != "" {
		line += " " + detail
	}
	fmt.Println(line)
}

// playersUpdatedDetail summarises a player snapshot. The payload carries the
// whole known history, so only rows marked online are counted.
func playersUpdatedDetail(payload json.RawMessage) string {
	var p struct {
		Players []struct {
			Status string `json:"status"`
		} `json:"players"`
	}
	if json.Unmarshal(payload, &p) != nil {
		return ""
	}

	online := 0
	for _, player := range p.Players {
		if player.Status == "online" {
			online++
		}
	}
	return fmt.Sprintf("%d online", online)
}
