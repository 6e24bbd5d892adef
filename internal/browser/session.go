// Package browser provides a headless Chrome session for driving the presentation.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// Session owns one headless browser for the duration of a collection run.
// It is acquired once with Start and must be released with Stop on every
// exit path. Requires Chrome/Chromium to be installed on the system.
type Session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
}

// NewSession creates an unstarted session.
func NewSession() *Session {
	return &Session{}
}

// Start launches the headless browser. The parent context bounds the whole
// session lifetime: cancelling it tears the browser down.
func (s *Session) Start(parent context.Context) error {
	allocCtx, allocCancel := chromedp.NewExecAllocator(parent,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)

	browserCtx, cancel := chromedp.NewContext(allocCtx)

	// Run with no actions forces the browser process to launch now, so a
	// missing Chrome binary fails here instead of mid-collection.
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		allocCancel()
		return fmt.Errorf("launching headless browser: %w", err)
	}

	s.ctx = browserCtx
	s.cancel = cancel
	s.allocCancel = allocCancel
	return nil
}

// Stop shuts the browser down. Safe to call on an unstarted or already
// stopped session.
func (s *Session) Stop() error {
	if s.ctx == nil {
		return nil
	}

	err := chromedp.Cancel(s.ctx)
	s.cancel()
	s.allocCancel()
	s.ctx = nil
	if err != nil {
		return fmt.Errorf("stopping browser: %w", err)
	}
	return nil
}

// Navigate loads a URL and waits for the document body, bounded by timeout.
func (s *Session) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	runCtx, cancel := s.boundedCtx(ctx, timeout)
	defer cancel()

	if err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

// PollUntil evaluates a JavaScript predicate expression repeatedly until it
// is truthy or the timeout elapses.
func (s *Session) PollUntil(ctx context.Context, expr string, timeout time.Duration) error {
	runCtx, cancel := s.boundedCtx(ctx, timeout)
	defer cancel()

	if err := chromedp.Run(runCtx, chromedp.Poll(expr, nil)); err != nil {
		return fmt.Errorf("waiting for page condition: %w", err)
	}
	return nil
}

// Evaluate runs a JavaScript expression and decodes its JSON result into out.
// Pass nil to discard the result.
func (s *Session) Evaluate(ctx context.Context, expr string, out any) error {
	runCtx, cancel := s.boundedCtx(ctx, 0)
	defer cancel()

	if err := chromedp.Run(runCtx, chromedp.Evaluate(expr, out)); err != nil {
		return fmt.Errorf("evaluating page script: %w", err)
	}
	return nil
}

// boundedCtx derives a run context from the session, honoring both the
// caller's cancellation and an optional timeout.
func (s *Session) boundedCtx(caller context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	runCtx := s.ctx
	cancel := context.CancelFunc(func() {})
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(runCtx, timeout)
	}
	if caller == nil {
		return runCtx, cancel
	}

	// chromedp actions must run on the session's context chain, so the
	// caller's context only contributes cancellation.
	runCtx, stop := context.WithCancel(runCtx)
	go func() {
		select {
		case <-caller.Done():
			stop()
		case <-runCtx.Done():
		}
	}()
	return runCtx, func() { stop(); cancel() }
}
