package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/drips-network/gardener-sub000/pkg/depgraph"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	defer c.Close()

	// Miss before Set
	_, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("expected miss before Set")
	}

	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || !hit {
		t.Fatalf("Get after Set: hit=%v err=%v", hit, err)
	}
	if string(data) != "value" {
		t.Errorf("data = %q, want value", data)
	}

	// Stored bytes are isolated from caller mutation
	data[0] = 'X'
	data2, _, _ := c.Get(ctx, "key")
	if string(data2) != "value" {
		t.Error("cache returned aliased bytes")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("expected miss after Delete")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("expected expired entry to miss")
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "analysis:abc", []byte(`{"run_id":"x"}`), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "analysis:abc")
	if err != nil || !hit {
		t.Fatalf("Get: hit=%v err=%v", hit, err)
	}
	if string(data) != `{"run_id":"x"}` {
		t.Errorf("data = %q", data)
	}

	// Expired entries miss and are removed
	if err := c.Set(ctx, "old", []byte("x"), -time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "old"); hit {
		t.Error("expected expired entry to miss")
	}

	// Delete of a missing key is not an error
	if err := c.Delete(ctx, "never-set"); err != nil {
		t.Errorf("Delete missing: %v", err)
	}
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h3 := Hash([]byte("world")); h1 == h3 {
		t.Error("different inputs should produce different hashes")
	}
	// SHA-256 as hex is 64 chars
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	base := AnalysisKeyOpts{
		Metric:        "pagerank",
		PageRankAlpha: 0.85,
		KatzAlpha:     0.15,
		Weights:       depgraph.DefaultWeights(),
		SortKeys:      true,
	}

	// Same inputs, same key
	if k.AnalysisKey("doc1", base) != k.AnalysisKey("doc1", base) {
		t.Error("AnalysisKey should be deterministic")
	}

	// Parameter changes produce different keys
	katz := base
	katz.Metric = "katz"
	if k.AnalysisKey("doc1", base) == k.AnalysisKey("doc1", katz) {
		t.Error("different metrics should produce different keys")
	}
	if k.AnalysisKey("doc1", base) == k.AnalysisKey("doc2", base) {
		t.Error("different documents should produce different keys")
	}

	// Edge weights are part of the configuration surface: a run with
	// reweighted edges must never be served another run's result.
	reweighted := base
	reweighted.Weights.ImportsPackage = 0.9
	if k.AnalysisKey("doc1", base) == k.AnalysisKey("doc1", reweighted) {
		t.Error("different edge weights should produce different keys")
	}

	// Artifact kinds are namespaced apart
	if k.AnalysisKey("doc1", base) == k.GraphKey("doc1", base) {
		t.Error("analysis and graph keys should differ")
	}

	svg := RenderKeyOpts{Format: "svg", Layout: "dot"}
	png := RenderKeyOpts{Format: "png", Layout: "dot"}
	if k.RenderKey("g1", svg) == k.RenderKey("g1", png) {
		t.Error("different formats should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	opts := AnalysisKeyOpts{Metric: "pagerank"}

	scoped := NewScopedKeyer(NewDefaultKeyer(), "user:123:")
	key := scoped.AnalysisKey("doc1", opts)
	if len(key) < 9 || key[:9] != "user:123:" {
		t.Errorf("key should be prefixed: %s", key)
	}
	if key[9:] != NewDefaultKeyer().AnalysisKey("doc1", opts) {
		t.Error("scoped key should wrap the inner key")
	}

	// Nil inner falls back to the default keyer
	fallback := NewScopedKeyer(nil, "p:")
	if fallback.GraphKey("doc1", opts)[:2] != "p:" {
		t.Error("nil inner should still prefix")
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	errConn := errors.New("connection refused")
	err := Retryable(errConn)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != errConn.Error() {
		t.Errorf("error message should be preserved: %s", err.Error())
	}
	if IsRetryable(errors.New("bad key")) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil || calls != 1 {
		t.Errorf("first-try success: err=%v calls=%d", err, calls)
	}

	errFatal := errors.New("bad key")
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return errFatal
	})
	if err != errFatal || calls != 1 {
		t.Errorf("non-retryable: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(errors.New("connection refused"))
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry then succeed: err=%v calls=%d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(errors.New("connection refused"))
	})
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
