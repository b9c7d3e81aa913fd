package imagecache

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func newTestResolver(t *testing.T) (*Resolver, map[Variant]Profile, string) {
	t.Helper()

	profiles := testProfiles(t)
	resolver := NewResolver(profiles, NewTranscoder(false))
	srcDir := t.TempDir()
	return resolver, profiles, srcDir
}

func TestResolveCreatesArtifact(t *testing.T) {
	resolver, profiles, srcDir := newTestResolver(t)
	src := writeTestJPEG(t, srcDir, "photo.jpg", 1600, 1200)

	artifact := resolver.Resolve(src, Thumbnail)

	if artifact == src {
		t.Fatal("expected an artifact path, got the source back")
	}
	if filepath.Dir(artifact) != profiles[Thumbnail].Dir {
		t.Errorf("artifact in %s, want %s", filepath.Dir(artifact), profiles[Thumbnail].Dir)
	}
	if _, err := os.Stat(artifact); err != nil {
		t.Errorf("artifact missing on disk: %v", err)
	}

	w, h := decodeBounds(t, artifact)
	if w > 400 || h > 300 {
		t.Errorf("thumbnail %dx%d exceeds 400x300", w, h)
	}
}

func TestResolveTwiceIsCacheHit(t *testing.T) {
	resolver, _, srcDir := newTestResolver(t)
	src := writeTestJPEG(t, srcDir, "photo.jpg", 1600, 1200)

	first := resolver.Resolve(src, Thumbnail)
	info, err := os.Stat(first)
	if err != nil {
		t.Fatal(err)
	}
	firstMod := info.ModTime()

	second := resolver.Resolve(src, Thumbnail)
	if second != first {
		t.Errorf("second resolve = %q, want %q", second, first)
	}

	info, err = os.Stat(second)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(firstMod) {
		t.Error("second resolve regenerated the artifact; expected a cache hit")
	}
}

func TestResolveContentAddressing(t *testing.T) {
	resolver, _, srcDir := newTestResolver(t)

	a := writeTestJPEG(t, srcDir, "a.jpg", 800, 600)
	data, err := os.ReadFile(a)
	if err != nil {
		t.Fatal(err)
	}
	b := filepath.Join(srcDir, "renamed_copy.jpg")
	if err := os.WriteFile(b, data, 0o644); err != nil {
		t.Fatal(err)
	}

	if resolver.Resolve(a, Thumbnail) != resolver.Resolve(b, Thumbnail) {
		t.Error("identical bytes must share one cache artifact")
	}
}

func TestResolveVariantsAreSeparate(t *testing.T) {
	resolver, profiles, srcDir := newTestResolver(t)
	src := writeTestJPEG(t, srcDir, "photo.jpg", 1600, 1200)

	thumb := resolver.Resolve(src, Thumbnail)
	preview := resolver.Resolve(src, Preview)

	if thumb == preview {
		t.Error("thumbnail and preview must be distinct artifacts")
	}
	if filepath.Dir(preview) != profiles[Preview].Dir {
		t.Errorf("preview in %s, want %s", filepath.Dir(preview), profiles[Preview].Dir)
	}
}

func TestResolveFallsBackToSourceOnFailure(t *testing.T) {
	profiles := testProfiles(t)
	// Point the thumbnail dir somewhere that cannot be created
	thumb := profiles[Thumbnail]
	thumb.Dir = filepath.Join(string(os.PathSeparator), "dev", "null", "impossible")
	profiles[Thumbnail] = thumb

	resolver := NewResolver(profiles, NewTranscoder(false))
	src := writeTestJPEG(t, t.TempDir(), "photo.jpg", 800, 600)

	if got := resolver.Resolve(src, Thumbnail); got != src {
		t.Errorf("Resolve = %q, want the source path on failure", got)
	}
}

func TestResolveCorruptSourceFallsBack(t *testing.T) {
	resolver, _, srcDir := newTestResolver(t)

	src := filepath.Join(srcDir, "corrupt.jpg")
	if err := os.WriteFile(src, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := resolver.Resolve(src, Thumbnail); got != src {
		t.Errorf("Resolve = %q, want the source path for corrupt input", got)
	}

	// The fallback is memoized: no regeneration attempt inside the TTL
	if got := resolver.Resolve(src, Thumbnail); got != src {
		t.Errorf("memoized fallback = %q, want source path", got)
	}
}

func TestResolveUnknownVariant(t *testing.T) {
	resolver, _, srcDir := newTestResolver(t)
	src := writeTestJPEG(t, srcDir, "photo.jpg", 800, 600)

	if got := resolver.Resolve(src, Variant("poster")); got != src {
		t.Errorf("unknown variant should return the source, got %q", got)
	}
}

func TestFlushMemoForcesDiskRecheck(t *testing.T) {
	resolver, _, srcDir := newTestResolver(t)
	src := writeTestJPEG(t, srcDir, "photo.jpg", 800, 600)

	artifact := resolver.Resolve(src, Thumbnail)
	if resolver.MemoCount() == 0 {
		t.Error("expected a memoized entry after resolve")
	}

	// Remove the artifact behind the resolver's back; the memo keeps
	// returning the stale path until flushed, then disk is re-checked and
	// the artifact regenerated
	if err := os.Remove(artifact); err != nil {
		t.Fatal(err)
	}
	if got := resolver.Resolve(src, Thumbnail); got != artifact {
		t.Errorf("memoized resolve = %q, want %q", got, artifact)
	}

	resolver.FlushMemo()
	if got := resolver.Resolve(src, Thumbnail); got != artifact {
		t.Errorf("post-flush resolve = %q, want %q", got, artifact)
	}
	if _, err := os.Stat(artifact); err != nil {
		t.Errorf("artifact not regenerated after flush: %v", err)
	}
}

func TestResolveConcurrentSameSource(t *testing.T) {
	resolver, _, srcDir := newTestResolver(t)
	src := writeTestJPEG(t, srcDir, "photo.jpg", 1600, 1200)

	const n = 8
	results := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = resolver.Resolve(src, Thumbnail)
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if results[i] != results[0] {
			t.Fatalf("concurrent resolves disagree: %q vs %q", results[i], results[0])
		}
	}
	if results[0] == src {
		t.Error("concurrent resolves all degraded to the source")
	}
}
