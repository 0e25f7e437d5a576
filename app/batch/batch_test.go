package batch

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lysyi3m/filmhook/app/discord"
)

func titleBuilder(fail map[int]bool) BuildFunc[int] {
	return func(ctx context.Context, n int) (discord.Embed, error) {
		if fail[n] {
			return discord.Embed{}, fmt.Errorf("entry %d failed", n)
		}
		return discord.Embed{Title: fmt.Sprintf("entry %d", n)}, nil
	}
}

func titles(embeds []discord.Embed) []string {
	out := make([]string, 0, len(embeds))
	for _, e := range embeds {
		out = append(out, e.Title)
	}
	return out
}

func TestBuild_StopsAtLimit(t *testing.T) {
	outcomes, err := Build(context.Background(), []int{1, 2, 3, 4, 5}, 3, 1, titleBuilder(nil))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	got := titles(Embeds(outcomes))
	if fmt.Sprint(got) != "[entry 1 entry 2 entry 3]" {
		t.Errorf("Expected first three entries, got: %v", got)
	}
	if outcomes[3].Status != Pending || outcomes[4].Status != Pending {
		t.Errorf("Expected entries past the limit to stay pending, got: %v %v", outcomes[3].Status, outcomes[4].Status)
	}
}

func TestBuild_FailureDoesNotUseSlot(t *testing.T) {
	outcomes, err := Build(context.Background(), []int{1, 2, 3, 4}, 2, 1, titleBuilder(map[int]bool{1: true}))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	got := titles(Embeds(outcomes))
	if fmt.Sprint(got) != "[entry 2 entry 3]" {
		t.Errorf("Expected entries 2 and 3, got: %v", got)
	}
	if errs := Errors(outcomes); len(errs) != 1 {
		t.Errorf("Expected 1 error, got: %d", len(errs))
	}
	if outcomes[3].Status != Pending {
		t.Errorf("Expected entry 4 pending, got: %v", outcomes[3].Status)
	}
}

func TestBuild_ConcurrentKeepsOrder(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6}
	var inFlight, peak int32

	build := func(ctx context.Context, n int) (discord.Embed, error) {
		cur := atomic.AddInt32(&inFlight, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
				break
			}
		}
		// Earlier entries finish last.
		time.Sleep(time.Duration(len(items)-n) * 5 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return discord.Embed{Title: fmt.Sprintf("entry %d", n)}, nil
	}

	outcomes, err := Build(context.Background(), items, 6, 3, build)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	got := titles(Embeds(outcomes))
	want := "[entry 1 entry 2 entry 3 entry 4 entry 5 entry 6]"
	if fmt.Sprint(got) != want {
		t.Errorf("Expected %s, got: %v", want, got)
	}
	if peak > 3 {
		t.Errorf("Expected at most 3 concurrent builds, got: %d", peak)
	}
}

func TestBuild_ConcurrentFailureRefillsWindow(t *testing.T) {
	outcomes, err := Build(context.Background(), []int{1, 2, 3, 4, 5}, 3, 3, titleBuilder(map[int]bool{2: true}))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	got := titles(Embeds(outcomes))
	if fmt.Sprint(got) != "[entry 1 entry 3 entry 4]" {
		t.Errorf("Expected entries 1, 3 and 4, got: %v", got)
	}
	if outcomes[4].Status != Pending {
		t.Errorf("Expected entry 5 pending, got: %v", outcomes[4].Status)
	}
}

func TestBuild_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Build(ctx, []int{1}, 1, 1, titleBuilder(nil))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got: %v", err)
	}
}

func TestResult_Total(t *testing.T) {
	r := Result{Counts: []discord.Count{{N: 2}, {N: 0}, {N: 3}}}
	if r.Total() != 5 {
		t.Errorf("Expected total 5, got: %d", r.Total())
	}
}
