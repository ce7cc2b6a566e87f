package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/housemarket/browse-service/internal/entity"
)

// SuggestDebounceDelay is the input-inactivity window before a suggestion
// lookup is issued.
const SuggestDebounceDelay = 400 * time.Millisecond

// SuggestionDebouncer coalesces rapid query updates into a single lookup and
// guarantees last-request-wins delivery: a result whose request was superseded
// by newer input is discarded, even if it resolves later. Supersession is
// tracked with a sequence token rather than comparing responses, so
// out-of-order resolution can never overwrite a newer result.
type SuggestionDebouncer struct {
	uc      *SuggestUseCase
	delay   time.Duration
	deliver func(query string, results []*entity.AddressSuggestion)

	mu    sync.Mutex
	seq   uint64
	timer *time.Timer
}

func NewSuggestionDebouncer(uc *SuggestUseCase, delay time.Duration, deliver func(string, []*entity.AddressSuggestion)) *SuggestionDebouncer {
	return &SuggestionDebouncer{
		uc:      uc,
		delay:   delay,
		deliver: deliver,
	}
}

// Update registers new input. The lookup fires only after the delay elapses
// with no further updates.
func (d *SuggestionDebouncer) Update(ctx context.Context, query string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	token := d.seq
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(ctx, token, query)
	})
}

// Cancel invalidates any pending or in-flight lookup.
func (d *SuggestionDebouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *SuggestionDebouncer) fire(ctx context.Context, token uint64, query string) {
	d.mu.Lock()
	if token != d.seq {
		d.mu.Unlock()
		return
	}
	d.mu.Unlock()

	results := d.uc.Suggest(ctx, query)

	d.mu.Lock()
	defer d.mu.Unlock()
	if token != d.seq {
		// Superseded while the lookup was in flight.
		return
	}
	d.deliver(query, results)
}
