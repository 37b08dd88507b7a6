package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridkit/pkg/cache"
	"github.com/matzehuels/gridkit/pkg/errors"
	"github.com/matzehuels/gridkit/pkg/grid"
	"github.com/matzehuels/gridkit/pkg/observability"
)

// memoryCache is an in-memory cache that counts operations.
type memoryCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	gets    int
	sets    int
	failGet bool
	lastTTL time.Duration
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.failGet {
		return nil, false, fmt.Errorf("backend unavailable")
	}
	data, ok := c.data[key]
	return data, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.lastTTL = ttl
	c.data[key] = data
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memoryCache) Close() error { return nil }

func quietLogger() *log.Logger {
	return log.New(&bytes.Buffer{})
}

func TestRunnerExecute(t *testing.T) {
	runner := NewRunner(newMemoryCache(), nil, quietLogger())
	ctx := context.Background()

	result, err := runner.Execute(ctx, Options{Viewport: testViewport(), Zoom: 1})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Stats.Elements != 944 {
		t.Errorf("Elements = %d, want 944", result.Stats.Elements)
	}
	if result.Stats.TierCounts != [3]int{722, 182, 38} {
		t.Errorf("TierCounts = %v, want [722 182 38]", result.Stats.TierCounts)
	}
	if result.Stats.Origin != 2 {
		t.Errorf("Origin = %d, want 2", result.Stats.Origin)
	}
	if len(result.OverlayHash) != 64 {
		t.Errorf("OverlayHash length = %d, want 64", len(result.OverlayHash))
	}
	if _, ok := result.Artifacts[FormatSVG]; !ok {
		t.Error("default format svg missing from artifacts")
	}
	if result.CacheInfo.RenderHit {
		t.Error("first run should not hit the cache")
	}
}

func TestRunnerCachesArtifacts(t *testing.T) {
	c := newMemoryCache()
	runner := NewRunner(c, nil, quietLogger())
	ctx := context.Background()
	opts := Options{Viewport: testViewport(), Zoom: 2, Formats: []string{"svg", "json"}}

	first, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if c.sets != 2 {
		t.Errorf("sets after first run = %d, want 2", c.sets)
	}

	second, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should be served from cache")
	}
	if len(second.CacheInfo.Hits) != 2 {
		t.Errorf("Hits = %v, want both formats", second.CacheInfo.Hits)
	}
	if c.sets != 2 {
		t.Errorf("sets after second run = %d, want 2", c.sets)
	}
	for f, data := range first.Artifacts {
		if !bytes.Equal(data, second.Artifacts[f]) {
			t.Errorf("cached %s differs from rendered", f)
		}
	}
	if first.OverlayHash != second.OverlayHash {
		t.Error("OverlayHash should be stable")
	}
	if first.Overlay == nil {
		t.Error("first run should carry the computed overlay")
	}
	if second.Overlay != nil || second.Stats.ComputeTime != 0 {
		t.Error("full cache hit should skip computing the overlay")
	}
	if second.Stats.Elements != first.Stats.Elements || second.Stats.TierCounts != first.Stats.TierCounts {
		t.Errorf("cached stats %+v differ from computed %+v", second.Stats, first.Stats)
	}
}

func TestRunnerFullHitSkipsCompute(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	runner := NewRunner(newMemoryCache(), nil, quietLogger())
	ctx := context.Background()
	opts := Options{Viewport: testViewport(), Formats: []string{"svg", "json"}}

	if _, err := runner.Execute(ctx, opts); err != nil {
		t.Fatal(err)
	}
	if _, err := runner.Execute(ctx, opts); err != nil {
		t.Fatal(err)
	}
	if hooks.computes != 1 {
		t.Errorf("compute hooks = %d, want 1", hooks.computes)
	}

	// A partial hit still has to compute.
	opts.Formats = []string{"svg", "png"}
	opts.Width, opts.Height = 50, 30
	if _, err := runner.Execute(ctx, opts); err != nil {
		t.Fatal(err)
	}
	if hooks.computes != 2 {
		t.Errorf("compute hooks after partial hit = %d, want 2", hooks.computes)
	}
}

func TestRunnerElementBudget(t *testing.T) {
	skinny := grid.Viewport{X: 0, Y: 0, Width: 1000, Height: 1}

	tests := []struct {
		name        string
		runnerLimit int
		optsLimit   int
		wantErr     bool
	}{
		{"default budget", 0, 0, true},
		{"runner budget", 500_000, 0, false},
		{"options override runner", 500_000, 1000, true},
		{"disabled", -1, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newMemoryCache()
			runner := NewRunner(c, nil, quietLogger())
			runner.MaxElements = tt.runnerLimit

			result, err := runner.Execute(context.Background(), Options{
				Viewport:    skinny,
				Formats:     []string{"json"},
				Summary:     true,
				MaxElements: tt.optsLimit,
			})
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidViewport) {
					t.Fatalf("error = %v, want INVALID_VIEWPORT", err)
				}
				if c.gets != 0 {
					t.Error("rejected run should not touch the cache")
				}
				return
			}
			if err != nil {
				t.Fatalf("Execute: %v", err)
			}
			if result.Stats.Elements <= DefaultMaxElements {
				t.Errorf("Elements = %d, want more than %d", result.Stats.Elements, DefaultMaxElements)
			}
		})
	}
}

func TestRunnerRendersOnlyMissingFormats(t *testing.T) {
	c := newMemoryCache()
	runner := NewRunner(c, nil, quietLogger())
	ctx := context.Background()

	if _, err := runner.Execute(ctx, Options{Viewport: testViewport(), Formats: []string{"svg"}}); err != nil {
		t.Fatal(err)
	}

	result, err := runner.Execute(ctx, Options{Viewport: testViewport(), Formats: []string{"svg", "json"}})
	if err != nil {
		t.Fatal(err)
	}
	if result.CacheInfo.RenderHit {
		t.Error("partial hit should not report RenderHit")
	}
	if len(result.CacheInfo.Hits) != 1 || result.CacheInfo.Hits[0] != FormatSVG {
		t.Errorf("Hits = %v, want [svg]", result.CacheInfo.Hits)
	}
	if c.sets != 2 {
		t.Errorf("sets = %d, want 2 (svg once, json once)", c.sets)
	}
}

func TestRunnerRefreshBypassesReads(t *testing.T) {
	c := newMemoryCache()
	runner := NewRunner(c, nil, quietLogger())
	ctx := context.Background()
	opts := Options{Viewport: testViewport()}

	if _, err := runner.Execute(ctx, opts); err != nil {
		t.Fatal(err)
	}
	gets := c.gets

	opts.Refresh = true
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if c.gets != gets {
		t.Error("refresh should not read the cache")
	}
	if result.CacheInfo.RenderHit {
		t.Error("refresh should re-render")
	}
	if c.sets != 2 {
		t.Errorf("sets = %d, want refreshed entry written", c.sets)
	}
}

func TestRunnerCacheReadFailureIsMiss(t *testing.T) {
	c := newMemoryCache()
	c.failGet = true
	runner := NewRunner(c, nil, quietLogger())

	result, err := runner.Execute(context.Background(), Options{Viewport: testViewport()})
	if err != nil {
		t.Fatalf("cache failure should not fail the run: %v", err)
	}
	if len(result.Artifacts[FormatSVG]) == 0 {
		t.Error("svg should still be rendered")
	}
}

func TestRunnerNullCache(t *testing.T) {
	runner := NewRunner(nil, nil, quietLogger())
	ctx := context.Background()
	opts := Options{Viewport: testViewport()}

	for i := 0; i < 2; i++ {
		result, err := runner.Execute(ctx, opts)
		if err != nil {
			t.Fatal(err)
		}
		if result.CacheInfo.RenderHit {
			t.Error("NullCache should never hit")
		}
	}
}

func TestRunnerInvalidOptions(t *testing.T) {
	runner := NewRunner(nil, nil, quietLogger())
	_, err := runner.Execute(context.Background(), Options{Viewport: testViewport(), Zoom: -1})
	if !errors.Is(err, errors.ErrCodeInvalidZoom) {
		t.Errorf("error = %v, want INVALID_ZOOM", err)
	}
}

func TestRunnerUnknownGridTypeSharesCache(t *testing.T) {
	c := newMemoryCache()
	runner := NewRunner(c, cache.NewScopedKeyer(nil, "test:"), quietLogger())
	ctx := context.Background()

	if _, err := runner.Execute(ctx, Options{Viewport: testViewport(), GridType: "lines"}); err != nil {
		t.Fatal(err)
	}
	result, err := runner.Execute(ctx, Options{Viewport: testViewport(), GridType: "hexagons"})
	if err != nil {
		t.Fatal(err)
	}
	if !result.CacheInfo.RenderHit {
		t.Error("unknown grid type should render as lines and hit the lines entry")
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	computes int
	renders  int
	elements int
}

func (h *recordingHooks) OnComputeComplete(_ context.Context, elements int, _ time.Duration, _ error) {
	h.computes++
	h.elements = elements
}

func (h *recordingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.renders++
}

func TestRunnerFiresHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	runner := NewRunner(newMemoryCache(), nil, quietLogger())
	ctx := context.Background()
	opts := Options{Viewport: testViewport()}

	for i := 0; i < 2; i++ {
		if _, err := runner.Execute(ctx, opts); err != nil {
			t.Fatal(err)
		}
	}

	if hooks.computes != 1 {
		t.Errorf("compute hooks = %d, want 1 (second run cached)", hooks.computes)
	}
	if hooks.elements != 944 {
		t.Errorf("elements = %d, want 944", hooks.elements)
	}
	if hooks.renders != 1 {
		t.Errorf("render hooks = %d, want 1 (second run cached)", hooks.renders)
	}
}

func TestRunnerWithFileCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, quietLogger())
	defer runner.Close()

	ctx := context.Background()
	opts := Options{Viewport: testViewport(), Formats: []string{"png"}, Width: 100, Height: 60}

	if _, err := runner.Execute(ctx, opts); err != nil {
		t.Fatal(err)
	}
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !result.CacheInfo.RenderHit {
		t.Error("second run should hit the file cache")
	}
	if !bytes.HasPrefix(result.Artifacts[FormatPNG], []byte("\x89PNG")) {
		t.Error("cached artifact is not a PNG")
	}
}

func TestRunnerTTL(t *testing.T) {
	mc := newMemoryCache()
	runner := NewRunner(mc, nil, quietLogger())
	ctx := context.Background()

	if _, err := runner.Execute(ctx, Options{Viewport: testViewport()}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if mc.lastTTL != cache.TTLArtifact {
		t.Errorf("default TTL = %v, want %v", mc.lastTTL, cache.TTLArtifact)
	}

	runner.TTL = time.Hour
	if _, err := runner.Execute(ctx, Options{Viewport: testViewport(), Refresh: true}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if mc.lastTTL != time.Hour {
		t.Errorf("TTL = %v, want 1h", mc.lastTTL)
	}
}
