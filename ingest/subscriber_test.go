package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/theoremus-urban-solutions/sldm/v2x"
)

type recordingHandler struct {
	msgs []v2x.DecodedMessage
	err  error
}

func (h *recordingHandler) Handle(msg v2x.DecodedMessage) error {
	h.msgs = append(h.msgs, msg)
	return h.err
}

func TestSubscriber_HandlePayload(t *testing.T) {
	h := &recordingHandler{}
	s := NewSubscriber("v2x.decoded", "", JSONDecoder{}, h)

	if err := s.handlePayload([]byte(`{"type":"cam","stationID":1,"vehicle":{"lat":45,"lon":7}}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.handlePayload([]byte(`garbage`)); !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
	h.err = ErrStale
	if err := s.handlePayload([]byte(`{"type":"cam","stationID":1,"vehicle":{"lat":45,"lon":7}}`)); !errors.Is(err, ErrStale) {
		t.Errorf("expected handler error, got %v", err)
	}

	received, dropped := s.Stats()
	if received != 3 || dropped != 2 {
		t.Errorf("expected 3 received and 2 dropped, got %d and %d", received, dropped)
	}
	if len(h.msgs) != 2 {
		t.Errorf("handler should see only decodable payloads, got %d", len(h.msgs))
	}
}

func TestSubscriber_RunRequiresConnection(t *testing.T) {
	s := NewSubscriber("v2x.decoded", "sldm", JSONDecoder{}, &recordingHandler{})
	if err := s.Run(context.Background()); err == nil {
		t.Error("expected an error when running without a connection")
	}
}
