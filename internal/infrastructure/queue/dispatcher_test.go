package queue

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/civicvoice/platform/internal/core/ports"
)

func TestDispatcher_ShardIndexInRange(t *testing.T) {
	for _, workers := range []int{1, 3, 8} {
		d := NewDispatcher(workers, nil, zerolog.Nop())
		for i := 0; i < 500; i++ {
			email := fmt.Sprintf("person%d@example.com", i)
			idx := d.shardIndex(email)
			if idx < 0 || idx >= workers {
				t.Fatalf("shard index %d out of range [0,%d) for %q", idx, workers, email)
			}
		}
	}
}

func TestDispatcher_ShardIndexDeterministic(t *testing.T) {
	d := NewDispatcher(4, nil, zerolog.Nop())

	first := d.shardIndex("alice@example.com")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("alice@example.com"); got != first {
			t.Fatalf("shard index changed between calls: %d then %d", first, got)
		}
	}
}

func TestDispatcher_EnqueuePinsRecipientToOneWorker(t *testing.T) {
	d := NewDispatcher(4, nil, zerolog.Nop())

	jobs := []ports.CampaignDelivery{
		{CampaignID: "c1", Email: "alice@example.com"},
		{CampaignID: "c2", Email: "alice@example.com"},
		{CampaignID: "c3", Email: "alice@example.com"},
	}
	d.EnqueueBatch(jobs)

	idx := d.shardIndex("alice@example.com")
	if got := len(d.workers[idx]); got != 3 {
		t.Fatalf("expected all 3 deliveries on worker %d, found %d", idx, got)
	}
	for i, ch := range d.workers {
		if i != idx && len(ch) != 0 {
			t.Fatalf("delivery leaked onto worker %d", i)
		}
	}
}
