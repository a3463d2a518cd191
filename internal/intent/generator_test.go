package intent_test

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/atomintents/intentload/internal/intent"
)

func TestGeneratorProducesValidIntent(t *testing.T) {
	g := intent.NewGenerator(1)

	for i := 0; i < 200; i++ {
		in := g.Intent()

		if in.ID == "" || in.UserAddress == "" {
			t.Fatal("intent missing id or address")
		}
		if len(in.UserAddress) != len("cosmos1")+38 {
			t.Fatalf("unexpected address length: %q", in.UserAddress)
		}
		if in.Input.Amount <= 0 {
			t.Fatalf("input amount must be positive, got %d", in.Input.Amount)
		}
		if in.Output.MinAmount <= 0 {
			t.Fatalf("min output must be positive, got %d", in.Output.MinAmount)
		}
		if in.Output.MinAmount > in.Metadata.ExpectedOutput {
			t.Fatal("min output exceeds expected output despite slippage")
		}
		if in.Input.Denom == in.Output.Denom {
			t.Fatalf("intent trades a denom against itself: %s", in.Input.Denom)
		}
		if in.TimeoutSeconds < 15 || in.TimeoutSeconds > 300 {
			t.Fatalf("timeout outside profile ranges: %d", in.TimeoutSeconds)
		}
	}
}

func TestGeneratorDeterministicWithSeed(t *testing.T) {
	a := intent.NewGenerator(42)
	b := intent.NewGenerator(42)

	for i := 0; i < 10; i++ {
		x, y := a.Intent(), b.Intent()
		if x.ID != y.ID || x.UserAddress != y.UserAddress || x.Input != y.Input {
			t.Fatalf("seeded generators diverged at intent %d", i)
		}
	}
}

func TestPayloadStripsBookkeepingFields(t *testing.T) {
	g := intent.NewGenerator(7)
	in := g.Intent()

	data, err := json.Marshal(in.Payload())
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}

	for _, stripped := range []string{"id", "metadata", "created_at"} {
		if _, ok := fields[stripped]; ok {
			t.Errorf("payload must not carry %q", stripped)
		}
	}
	for _, required := range []string{"user_address", "input", "output", "fill_config", "constraints", "timeout_seconds"} {
		if _, ok := fields[required]; !ok {
			t.Errorf("payload missing %q", required)
		}
	}
}

func TestMatchingPairOpposes(t *testing.T) {
	g := intent.NewGenerator(3)
	first, second := g.MatchingPair()

	if second.Input.Denom != first.Output.Denom || second.Output.Denom != first.Input.Denom {
		t.Fatal("pair denoms do not oppose")
	}
	if second.Input.ChainID != first.Output.ChainID || second.Output.ChainID != first.Input.ChainID {
		t.Fatal("pair chains do not oppose")
	}
	if second.Input.Amount <= 0 || second.Output.MinAmount <= 0 {
		t.Fatal("pair amounts must be positive")
	}
}

func TestBatchSortedAndSized(t *testing.T) {
	g := intent.NewGenerator(9)
	batch := g.Batch(40, 0.3, time.Minute)

	if len(batch) != 40 {
		t.Fatalf("expected 40 intents, got %d", len(batch))
	}
	for i := 1; i < len(batch); i++ {
		if batch[i].CreatedAt.Before(batch[i-1].CreatedAt) {
			t.Fatalf("batch not sorted by creation time at %d", i)
		}
	}
}

func TestGeneratorConcurrentUse(t *testing.T) {
	g := intent.NewGenerator(0)

	var wg sync.WaitGroup
	wg.Add(8)
	for i := 0; i < 8; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if g.Intent().ID == "" {
					t.Error("empty intent id under concurrency")
					return
				}
			}
		}()
	}
	wg.Wait()
}
