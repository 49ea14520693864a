package payload

import (
	"errors"
	"testing"

	"SignalDash/internal/domain/models"
)

func TestDecodeEnvelope(t *testing.T) {
	ev, err := DecodeEnvelope([]byte(`{"event":"new_signal","data":{"timestamp":1728554400,"asset":"EURUSD","direction":"CALL","confidence":87}}`), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Type != models.EventNewSignal || ev.Signal == nil || ev.Err != nil {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestDecodeEnvelopeFallbackName(t *testing.T) {
	ev, err := DecodeEnvelope([]byte(`{"websocket_connected":true}`), "connection_update")
	if err != nil || ev.Connection == nil || !ev.Connection.Connected {
		t.Fatalf("unexpected event %+v, err %v", ev, err)
	}
}

func TestDecodeEnvelopeCarriesPayloadErrors(t *testing.T) {
	ev, err := DecodeEnvelope([]byte(`{"event":"performance_update","data":{"total_signals":"many"}}`), "")
	if err != nil {
		t.Fatalf("payload errors belong in the event, got %v", err)
	}
	if !errors.Is(ev.Err, models.ErrMalformedPayload) || ev.Performance != nil {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestDecodeEnvelopeUnknownEvent(t *testing.T) {
	_, err := DecodeEnvelope([]byte(`{"event":"clients_update","data":3}`), "")
	if !errors.Is(err, models.ErrUnknownEvent) {
		t.Fatalf("expected ErrUnknownEvent, got %v", err)
	}
	if _, err := DecodeEnvelope([]byte(`{"data":{}}`), ""); !errors.Is(err, models.ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload for nameless envelope, got %v", err)
	}
}

func TestSocketIOEvent(t *testing.T) {
	ev, err := SocketIOEvent([]byte(`["performance_update",{"total_signals":4,"winning_signals":1,"total_profit":"3.50"}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Performance == nil || !ev.HasProfit || ev.Performance.TotalProfit.StringFixed(2) != "3.50" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if _, err := SocketIOEvent([]byte(`{}`)); !errors.Is(err, models.ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload, got %v", err)
	}
}

func TestEventMinimalPayloads(t *testing.T) {
	ev, err := Event("new_signal", []byte(`{"asset":"EURUSD","direction":"CALL","confidence":87}`))
	if err != nil || ev.Err != nil || ev.Signal == nil {
		t.Fatalf("new_signal: event %+v, err %v", ev, err)
	}
	if ev.Signal.Direction != models.DirectionCall || ev.Signal.Confidence != 87 {
		t.Fatalf("new_signal: unexpected signal %+v", ev.Signal)
	}

	ev, err = Event("connection_update", []byte(`{"connected":true,"authenticated":true}`))
	if err != nil || ev.Err != nil || ev.Connection == nil {
		t.Fatalf("connection_update: event %+v, err %v", ev, err)
	}
	if !ev.Connection.Connected || !ev.Connection.Authenticated {
		t.Fatalf("connection_update: unexpected state %+v", ev.Connection)
	}
}
