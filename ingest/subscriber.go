package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/theoremus-urban-solutions/sldm/v2x"
)

// Handler consumes decoded messages.
type Handler interface {
	Handle(msg v2x.DecodedMessage) error
}

// Subscriber receives decoded-message envelopes from a NATS subject and
// feeds them to a Handler.
type Subscriber struct {
	conn    *nats.Conn
	subject string
	queue   string
	decoder Decoder
	handler Handler
	mutex   sync.Mutex

	received uint64
	dropped  uint64
}

// NewSubscriber creates a subscriber for subject. A non-empty queue joins a
// queue group so that several servers can share the load.
func NewSubscriber(subject, queue string, dec Decoder, h Handler) *Subscriber {
	return &Subscriber{subject: subject, queue: queue, decoder: dec, handler: h}
}

// Connect dials the NATS server and keeps reconnecting forever.
func (s *Subscriber) Connect(natsURL, name string, reconnectWait time.Duration) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	opts := []nats.Option{
		nats.Name(name),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Printf("[NATS] disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("[NATS] reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Printf("[NATS] connection closed")
		}),
	}

	conn, err := nats.Connect(natsURL, opts...)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS at %s: %w", natsURL, err)
	}
	s.conn = conn
	log.Printf("[NATS] connected to %s as %s", natsURL, name)
	return nil
}

// Run subscribes and processes messages until ctx is cancelled, then drains
// the connection.
func (s *Subscriber) Run(ctx context.Context) error {
	s.mutex.Lock()
	conn := s.conn
	s.mutex.Unlock()
	if conn == nil {
		return errors.New("subscriber not connected")
	}

	cb := func(m *nats.Msg) { _ = s.handlePayload(m.Data) }
	var (
		sub *nats.Subscription
		err error
	)
	if s.queue != "" {
		sub, err = conn.QueueSubscribe(s.subject, s.queue, cb)
	} else {
		sub, err = conn.Subscribe(s.subject, cb)
	}
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", s.subject, err)
	}
	log.Printf("[NATS] subscribed to %s (queue %q)", s.subject, s.queue)

	<-ctx.Done()
	_ = sub.Unsubscribe()
	if err := conn.Drain(); err != nil {
		log.Printf("[NATS] drain error: %v", err)
	}
	return nil
}

func (s *Subscriber) handlePayload(data []byte) error {
	s.mutex.Lock()
	s.received++
	s.mutex.Unlock()

	msg, err := s.decoder.Decode(data)
	if err == nil {
		err = s.handler.Handle(msg)
	}
	if err != nil {
		s.mutex.Lock()
		s.dropped++
		s.mutex.Unlock()
		log.Printf("[NATS] message dropped: %v", err)
	}
	return err
}

// Stats returns the number of received and dropped payloads.
func (s *Subscriber) Stats() (received, dropped uint64) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.received, s.dropped
}
