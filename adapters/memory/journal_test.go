package memory_test

import (
	"context"
	"testing"

	"github.com/modrig/modrig/adapters/memory"
	"github.com/modrig/modrig/ports"
)

func TestJournal(t *testing.T) {
	j := memory.NewJournal()
	ctx := context.Background()

	events := []ports.Event{
		{Kind: "load_started", Cycle: "c1"},
		{Kind: "hook_failed", Module: "a.Module"},
		{Kind: "load_completed", Cycle: "c1"},
	}
	for _, e := range events {
		if err := j.Record(ctx, e); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	if got := len(j.Events()); got != 3 {
		t.Errorf("len(Events()) = %d, want 3", got)
	}
	if got := j.ByKind("hook_failed"); len(got) != 1 || got[0].Module != "a.Module" {
		t.Errorf("ByKind(hook_failed) = %v, want one event for a.Module", got)
	}
	if err := j.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
