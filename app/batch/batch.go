// Package batch builds one poll cycle's entries into embeds under a per-payload
// cap, optionally in parallel, without reordering them.
package batch

import (
	"context"
	"errors"
	"sync"

	"github.com/lysyi3m/filmhook/app/discord"
)

// ErrNothingToPost is returned when a batch has no countable entries.
var ErrNothingToPost = errors.New("nothing to post")

type Status int

const (
	// Pending entries were past the cap and never built.
	Pending Status = iota
	Built
	Failed
)

type Outcome struct {
	Status Status
	Embed  discord.Embed
	Err    error
}

// Result is the aggregated outcome of one account's batch.
type Result struct {
	Payload *discord.Payload
	Counts  []discord.Count
	Skipped int     // unrecognized entries
	Errors  []error // entries whose embed could not be built
}

// Total returns the number of entries counted in the summary line.
func (r Result) Total() int {
	total := 0
	for _, c := range r.Counts {
		total += c.N
	}
	return total
}

type BuildFunc[T any] func(ctx context.Context, item T) (discord.Embed, error)

// Build builds items in order until limit embeds succeed. A failed item does not
// use up a slot, so the next item is tried in its place. With concurrency > 1,
// up to that many items are built at once; outcomes keep the input order.
func Build[T any](ctx context.Context, items []T, limit, concurrency int, build BuildFunc[T]) ([]Outcome, error) {
	outcomes := make([]Outcome, len(items))
	if concurrency < 1 {
		concurrency = 1
	}

	built := 0
	next := 0
	for next < len(items) && built < limit {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		window := min(concurrency, limit-built, len(items)-next)
		var wg sync.WaitGroup
		for i := next; i < next+window; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				embed, err := build(ctx, items[i])
				if err != nil {
					outcomes[i] = Outcome{Status: Failed, Err: err}
					return
				}
				outcomes[i] = Outcome{Status: Built, Embed: embed}
			}(i)
		}
		wg.Wait()

		for i := next; i < next+window; i++ {
			if outcomes[i].Status == Built {
				built++
			}
		}
		next += window
	}

	return outcomes, nil
}

// Embeds returns the built embeds in input order.
func Embeds(outcomes []Outcome) []discord.Embed {
	embeds := make([]discord.Embed, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Status == Built {
			embeds = append(embeds, o.Embed)
		}
	}
	return embeds
}

// Errors returns the build errors in input order.
func Errors(outcomes []Outcome) []error {
	var errs []error
	for _, o := range outcomes {
		if o.Status == Failed {
			errs = append(errs, o.Err)
		}
	}
	return errs
}
