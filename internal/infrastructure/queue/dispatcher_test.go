package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pingcraft/identity-system/internal/core/ports"
)

type recordingAuditService struct {
	mu     sync.Mutex
	events []ports.AuditInput
	done   chan struct{}
}

func (s *recordingAuditService) Record(_ context.Context, event ports.AuditInput) error {
	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()
	s.done <- struct{}{}
	return nil
}

func TestDispatcher_ShardIsDeterministic(t *testing.T) {
	d := NewDispatcher(4, nil, zerolog.Nop())
	for _, account := range []string{"alice123", "bob12345", "carol999"} {
		first := d.shardIndex(account)
		for i := 0; i < 10; i++ {
			if got := d.shardIndex(account); got != first {
				t.Fatalf("shard for %q changed: %d vs %d", account, first, got)
			}
		}
	}
}

func TestDispatcher_ProcessesEvents(t *testing.T) {
	svc := &recordingAuditService{done: make(chan struct{}, 16)}
	d := NewDispatcher(2, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	inputs := []ports.AuditInput{
		{Account: "alice123", Action: "login", Outcome: "success"},
		{Account: "alice123", Action: "logout", Outcome: "success"},
		{Account: "bob12345", Action: "login", Outcome: "failure"},
	}
	for _, in := range inputs {
		d.Enqueue(in)
	}

	for range inputs {
		select {
		case <-svc.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for audit events")
		}
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if len(svc.events) != len(inputs) {
		t.Fatalf("expected %d events, got %d", len(inputs), len(svc.events))
	}

	// Same-account events share a worker, so their order is preserved.
	var aliceActions []string
	for _, e := range svc.events {
		if e.Account == "alice123" {
			aliceActions = append(aliceActions, e.Action)
		}
	}
	if len(aliceActions) != 2 || aliceActions[0] != "login" || aliceActions[1] != "logout" {
		t.Fatalf("per-account ordering broken: %v", aliceActions)
	}
}

func TestDispatcher_EnqueueNeverBlocksWhenFull(t *testing.T) {
	// Workers never started, so the single shard buffer fills and stays full.
	d := NewDispatcher(1, nil, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < channelBuffer+10; i++ {
			d.Enqueue(ports.AuditInput{Account: "alice123", Action: "login"})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Enqueue blocked on a full worker channel")
	}
	if got := len(d.workers[0]); got != channelBuffer {
		t.Fatalf("expected buffer to hold %d events, got %d", channelBuffer, got)
	}
}

func TestDispatcher_DefaultWorkerCount(t *testing.T) {
	d := NewDispatcher(0, nil, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}
