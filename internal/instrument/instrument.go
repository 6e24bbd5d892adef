// Package instrument exposes the in-page overflow instrumentation as a narrow capability.
//
// The driven presentation publishes a handful of globals (slide collection,
// navigation hook, summary hook). This package is the only place that knows
// their names; everything else talks to the Page type.
package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonathan/overflow-checker/internal/schemas"
	"github.com/jonathan/overflow-checker/internal/types"
)

// Evaluator is the minimal browser surface the page bindings need.
type Evaluator interface {
	Evaluate(ctx context.Context, expr string, out any) error
	PollUntil(ctx context.Context, expr string, timeout time.Duration) error
}

const (
	slideCountExpr = `(() => {
		const slides = window.__allSlides || [];
		return slides.length;
	})()`

	// imagesCompleteExpr is a polling predicate, so it stays a bare expression.
	imagesCompleteExpr = `Array.from(document.images).every(img => img.complete)`

	summaryExpr = `(() => {
		if (typeof window.__generateOverflowSummary === 'function') {
			return window.__generateOverflowSummary();
		}
		return window.__overflowSummary || null;
	})()`
)

// Page reads the instrumentation globals through an Evaluator.
type Page struct {
	ev Evaluator
}

// New wraps an evaluator. The evaluator's session must be started before any
// Page method is called.
func New(ev Evaluator) *Page {
	return &Page{ev: ev}
}

// SlideCount reads the number of registered slides.
func (p *Page) SlideCount(ctx context.Context) (int, error) {
	var count int
	if err := p.ev.Evaluate(ctx, slideCountExpr, &count); err != nil {
		return 0, fmt.Errorf("reading slide count: %w", err)
	}
	return count, nil
}

// NavigateToSlide invokes the page's navigation hook for the given index.
// Returns false without error when the hook is missing or reports failure.
func (p *Page) NavigateToSlide(ctx context.Context, index int) (bool, error) {
	expr := fmt.Sprintf(`(() => {
		if (typeof window.__navigateToSlide === 'function') {
			return window.__navigateToSlide(%d) ? true : false;
		}
		return false;
	})()`, index)

	var navigated bool
	if err := p.ev.Evaluate(ctx, expr, &navigated); err != nil {
		return false, fmt.Errorf("navigating to slide %d: %w", index, err)
	}
	return navigated, nil
}

// WaitImagesComplete polls until every image on the page has finished
// loading, or the timeout elapses.
func (p *Page) WaitImagesComplete(ctx context.Context, timeout time.Duration) error {
	return p.ev.PollUntil(ctx, imagesCompleteExpr, timeout)
}

// Summary reads the overflow summary from the page, preferring the summary
// hook and falling back to the cached global. Returns (nil, nil) when the
// page exposes neither. The document is schema-validated before decoding so
// malformed instrumentation output cannot poison the report.
func (p *Page) Summary(ctx context.Context) (*types.OverflowSummary, error) {
	var raw json.RawMessage
	if err := p.ev.Evaluate(ctx, summaryExpr, &raw); err != nil {
		return nil, fmt.Errorf("reading overflow summary: %w", err)
	}
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if err := schemas.ValidateSummary(raw); err != nil {
		return nil, fmt.Errorf("page summary rejected: %w", err)
	}

	var summary types.OverflowSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, fmt.Errorf("decoding overflow summary: %w", err)
	}
	return &summary, nil
}
