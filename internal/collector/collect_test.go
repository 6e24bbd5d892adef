package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/overflow-checker/internal/types"
)

type fakeServer struct {
	url      string
	startErr error
	stops    int
}

func (f *fakeServer) Start(context.Context) (string, error) {
	if f.startErr != nil {
		return "", f.startErr
	}
	return f.url, nil
}

func (f *fakeServer) Stop() error {
	f.stops++
	return nil
}

type fakeBrowser struct {
	startErr error
	navErr   error
	stops    int
	stopErr  error
	navURL   string
}

func (f *fakeBrowser) Start(context.Context) error { return f.startErr }

func (f *fakeBrowser) Stop() error {
	f.stops++
	return f.stopErr
}

func (f *fakeBrowser) Navigate(_ context.Context, url string, _ time.Duration) error {
	f.navURL = url
	return f.navErr
}

type fakePage struct {
	counts    []int // successive SlideCount results
	countErr  error
	countCall int

	navOK    bool
	navErr   error
	navCalls []int

	waitErr   error
	waitCalls int

	summary *types.OverflowSummary
	sumErr  error
}

func (f *fakePage) SlideCount(context.Context) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	i := f.countCall
	f.countCall++
	if i >= len(f.counts) {
		i = len(f.counts) - 1
	}
	return f.counts[i], nil
}

func (f *fakePage) NavigateToSlide(_ context.Context, index int) (bool, error) {
	f.navCalls = append(f.navCalls, index)
	return f.navOK, f.navErr
}

func (f *fakePage) WaitImagesComplete(context.Context, time.Duration) error {
	f.waitCalls++
	return f.waitErr
}

func (f *fakePage) Summary(context.Context) (*types.OverflowSummary, error) {
	return f.summary, f.sumErr
}

func pageSummary() *types.OverflowSummary {
	return &types.OverflowSummary{
		GeneratedAt:      "2026-08-31T10:00:00Z",
		TotalSlides:      3,
		SlidesWithIssues: 1,
		TotalViolations:  1,
		Reports: []types.SlideReport{
			{SlideIndex: 1, SlideTitle: "Metrics", Violations: []types.Violation{
				{Type: types.ViolationBodyOverflow, Message: "body overflow", OverflowAmount: 40},
			}},
		},
	}
}

// newTestCollector returns a collector with sleeping disabled.
func newTestCollector(server Server, browser Browser, page Instrumentation) *Collector {
	c := New(server, browser, page)
	c.sleep = func(time.Duration) {}
	return c
}

func TestCollect_Success(t *testing.T) {
	server := &fakeServer{url: "http://localhost:4173"}
	browser := &fakeBrowser{}
	page := &fakePage{counts: []int{3}, navOK: true, summary: pageSummary()}

	summary, err := newTestCollector(server, browser, page).Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, pageSummary(), summary)
	assert.Equal(t, "http://localhost:4173", browser.navURL)

	// Navigation hook fires for every slide except the first.
	assert.Equal(t, []int{1, 2}, page.navCalls)

	assert.Equal(t, 1, server.stops)
	assert.Equal(t, 1, browser.stops)
}

func TestCollect_ServerStartFailureIsFatal(t *testing.T) {
	server := &fakeServer{startErr: errors.New("pnpm not found")}
	browser := &fakeBrowser{}
	page := &fakePage{counts: []int{1}}

	_, err := newTestCollector(server, browser, page).Collect(context.Background())
	require.Error(t, err)
	var se *StartupError
	assert.ErrorAs(t, err, &se)

	// Cleanup still runs for both resources, exactly once.
	assert.Equal(t, 1, server.stops)
	assert.Equal(t, 1, browser.stops)
}

func TestCollect_NavigationFailureIsFatal(t *testing.T) {
	server := &fakeServer{url: "http://localhost:4173"}
	browser := &fakeBrowser{navErr: errors.New("timeout after 60s")}
	page := &fakePage{counts: []int{1}}

	_, err := newTestCollector(server, browser, page).Collect(context.Background())
	require.Error(t, err)
	var ne *NavigationError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, "http://localhost:4173", ne.URL)

	assert.Equal(t, 1, server.stops)
	assert.Equal(t, 1, browser.stops)
}

func TestCollect_DiscoveryRetriesOnce(t *testing.T) {
	server := &fakeServer{url: "http://localhost:4173"}
	page := &fakePage{counts: []int{0, 2}, navOK: true, summary: pageSummary()}

	_, err := newTestCollector(server, &fakeBrowser{}, page).Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, page.countCall)
}

func TestCollect_DiscoveryFailureAfterRetry(t *testing.T) {
	server := &fakeServer{url: "http://localhost:4173"}
	browser := &fakeBrowser{}
	page := &fakePage{counts: []int{0, 0}}

	_, err := newTestCollector(server, browser, page).Collect(context.Background())
	require.Error(t, err)
	var de *DiscoveryError
	assert.ErrorAs(t, err, &de)
	assert.Equal(t, 2, page.countCall)

	assert.Equal(t, 1, server.stops)
	assert.Equal(t, 1, browser.stops)
}

func TestCollect_SlideNavigationFailureIsNonFatal(t *testing.T) {
	server := &fakeServer{url: "http://localhost:4173"}
	page := &fakePage{counts: []int{4}, navOK: false, navErr: errors.New("hook missing"), summary: pageSummary()}

	summary, err := newTestCollector(server, &fakeBrowser{}, page).Collect(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, summary)
	// The loop still visits every slide despite the failing hook.
	assert.Equal(t, []int{1, 2, 3}, page.navCalls)
}

func TestCollect_ImageWaitTimeoutIsNonFatal(t *testing.T) {
	server := &fakeServer{url: "http://localhost:4173"}
	page := &fakePage{counts: []int{2}, navOK: true, waitErr: errors.New("poll timeout"), summary: pageSummary()}

	_, err := newTestCollector(server, &fakeBrowser{}, page).Collect(context.Background())
	assert.NoError(t, err)
	// Initial wait plus one per navigated slide.
	assert.Equal(t, 2, page.waitCalls)
}

func TestCollect_SynthesizesEmptySummary(t *testing.T) {
	server := &fakeServer{url: "http://localhost:4173"}
	page := &fakePage{counts: []int{5}, navOK: true, summary: nil}

	summary, err := newTestCollector(server, &fakeBrowser{}, page).Collect(context.Background())
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, 5, summary.TotalSlides)
	assert.Equal(t, 0, summary.TotalViolations)
	assert.Equal(t, 0, summary.SlidesWithIssues)
	assert.NotNil(t, summary.Reports)
	assert.Empty(t, summary.Reports)
	require.NotNil(t, summary.AIEditorInstructions)
	assert.Equal(t, NoIssuesMessage, summary.AIEditorInstructions.Message)

	_, err = time.Parse(time.RFC3339, summary.GeneratedAt)
	assert.NoError(t, err, "generatedAt must be a valid RFC 3339 timestamp")
}

func TestCollect_SummaryErrorDegradesToEmpty(t *testing.T) {
	server := &fakeServer{url: "http://localhost:4173"}
	page := &fakePage{counts: []int{2}, navOK: true, sumErr: errors.New("schema rejected")}

	summary, err := newTestCollector(server, &fakeBrowser{}, page).Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, NoIssuesMessage, summary.AIEditorInstructions.Message)
}

func TestCollect_ServerStopsEvenWhenBrowserStopFails(t *testing.T) {
	server := &fakeServer{url: "http://localhost:4173"}
	browser := &fakeBrowser{stopErr: errors.New("browser already gone")}
	page := &fakePage{counts: []int{1}, navOK: true, summary: pageSummary()}

	_, err := newTestCollector(server, browser, page).Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, browser.stops)
	assert.Equal(t, 1, server.stops)
}

func TestCollect_BrowserStartFailureStillCleansUp(t *testing.T) {
	server := &fakeServer{url: "http://localhost:4173"}
	browser := &fakeBrowser{startErr: errors.New("no chrome binary")}
	page := &fakePage{counts: []int{1}}

	_, err := newTestCollector(server, browser, page).Collect(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, server.stops)
	assert.Equal(t, 1, browser.stops)
}
