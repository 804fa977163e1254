// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package eventprocessor

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/recommend/pipeline"
)

func testBusConfig() Config {
	cfg := DefaultConfig()
	cfg.TriggerRate = 6000
	cfg.TriggerBurst = 100
	cfg.CloseTimeout = time.Second
	return cfg
}

// publishUntil republishes a trigger until done reports true. Messages sent
// before the router subscribes are dropped by the transport.
func publishUntil(t *testing.T, pub message.Publisher, topic string, done func() bool) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for !done() {
		if time.Now().After(deadline) {
			t.Fatal("trigger was never handled")
		}
		if err := pub.Publish(topic, triggerMsg(`{"requested_by":"test"}`)); err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func TestBus_ServeTriggers(t *testing.T) {
	triggers := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	events := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer events.Close()

	cfg := testBusConfig()
	bus := NewBus(cfg, events, func() (message.Subscriber, error) { return triggers, nil }, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	starter := &stubStarter{}
	errCh := make(chan error, 1)
	go func() { errCh <- bus.ServeTriggers(ctx, starter) }()

	publishUntil(t, triggers, cfg.TriggerSubject, func() bool { return starter.count() > 0 })

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("ServeTriggers() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ServeTriggers did not return after cancel")
	}
}

func TestBus_EmbeddedServerEndToEnd(t *testing.T) {
	cfg := testBusConfig()
	cfg.URL = "nats://127.0.0.1:0"

	bus, err := Open(cfg, true, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := bus.Close(ctx); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	}()
	if !bus.server.IsRunning() {
		t.Fatal("embedded server not running")
	}
	effective := bus.Config()

	nc, err := natsgo.Connect(effective.URL)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer nc.Close()

	finished, err := nc.SubscribeSync(effective.FinishedSubject)
	if err != nil {
		t.Fatal(err)
	}
	if err := nc.Flush(); err != nil {
		t.Fatal(err)
	}

	// Job finished events reach plain NATS subscribers as JSON.
	bus.Publisher().JobFinished(context.Background(), finishedJob())
	raw, err := finished.NextMsg(5 * time.Second)
	if err != nil {
		t.Fatalf("NextMsg() error = %v", err)
	}
	var event JobFinishedEvent
	if err := json.Unmarshal(raw.Data, &event); err != nil {
		t.Fatalf("event is not JSON: %v", err)
	}
	if event.Job == nil || event.Job.Status != pipeline.StatusSucceeded {
		t.Errorf("event = %+v", event)
	}

	// Triggers published by another client start runs.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	starter := &stubStarter{}
	go func() { _ = bus.ServeTriggers(ctx, starter) }()

	triggerPub, err := NewNATSPublisher(&effective, watermill.NopLogger{})
	if err != nil {
		t.Fatal(err)
	}
	defer triggerPub.Close()
	publishUntil(t, triggerPub, effective.TriggerSubject, func() bool { return starter.count() > 0 })
}
