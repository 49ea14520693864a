package payload

import (
	"bytes"
	"encoding/json"
	"fmt"

	"SignalDash/internal/domain/models"
)

// Envelope is the JSON framing used by the redis, kafka and plain websocket transports.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Event decodes the data of a named push event. Decode failures are carried in the
// returned event's Err so the controller can report them; unknown names return
// models.ErrUnknownEvent as the second value and should be ignored by transports.
func Event(name string, data []byte) (models.PushEvent, error) {
	ev := models.PushEvent{Type: models.EventType(name)}
	switch ev.Type {
	case models.EventConnectionUpdate:
		c, err := Connection(data)
		if err != nil {
			ev.Err = err
			return ev, nil
		}
		ev.Connection = &c
	case models.EventPerformanceUpdate:
		p, hasProfit, err := Performance(data)
		if err != nil {
			ev.Err = err
			return ev, nil
		}
		ev.Performance = &p
		ev.HasProfit = hasProfit
	case models.EventNewSignal:
		s, err := Signal(data)
		if err != nil {
			ev.Err = err
			return ev, nil
		}
		ev.Signal = &s
	default:
		return ev, fmt.Errorf("%w: %q", models.ErrUnknownEvent, name)
	}
	return ev, nil
}

// DecodeEnvelope decodes a {"event": ..., "data": ...} frame. fallbackName is used
// when the frame has no event field (e.g. a kafka message key).
func DecodeEnvelope(b []byte, fallbackName string) (models.PushEvent, error) {
	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		if fallbackName == "" {
			return models.PushEvent{}, fmt.Errorf("%w: envelope: %v", models.ErrMalformedPayload, err)
		}
		return Event(fallbackName, b)
	}
	if env.Event == "" {
		if fallbackName == "" {
			return models.PushEvent{}, fmt.Errorf("%w: envelope without event name", models.ErrMalformedPayload)
		}
		return Event(fallbackName, b)
	}
	return Event(env.Event, env.Data)
}

// SocketIOEvent decodes the JSON array body of a socket.io event packet
// (`["new_signal", {...}]`).
func SocketIOEvent(body []byte) (models.PushEvent, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(body, &parts); err != nil || len(parts) == 0 {
		return models.PushEvent{}, fmt.Errorf("%w: socket.io packet %q", models.ErrMalformedPayload, truncate(body, 64))
	}
	var name string
	if err := json.Unmarshal(parts[0], &name); err != nil {
		return models.PushEvent{}, fmt.Errorf("%w: socket.io event name: %v", models.ErrMalformedPayload, err)
	}
	var data []byte
	if len(parts) > 1 {
		data = parts[1]
	}
	return Event(name, data)
}

func truncate(b []byte, n int) []byte {
	b = bytes.TrimSpace(b)
	if len(b) > n {
		return b[:n]
	}
	return b
}
