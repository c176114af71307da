package cache

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depeter/couchreel/internal/constants"
)

func writePNG(t *testing.T, w io.Writer, width, height int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	assert.NoError(t, png.Encode(w, img))
}

func newCache(t *testing.T) *ImageCache {
	t.Helper()
	ic, err := NewImageCache(filepath.Join(t.TempDir(), "images"))
	require.NoError(t, err)
	return ic
}

// load waits for a LoadAsync callback.
func load(t *testing.T, ic *ImageCache, key string) (image.Image, error) {
	t.Helper()
	type result struct {
		img image.Image
		err error
	}
	done := make(chan result, 1)
	ic.LoadAsync(context.Background(), key, func(img image.Image, err error) {
		done <- result{img, err}
	})
	select {
	case r := <-done:
		return r.img, r.err
	case <-time.After(5 * time.Second):
		t.Fatal("callback not delivered")
		return nil, nil
	}
}

func localPNG(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "poster.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	writePNG(t, f, 4, 6)
	require.NoError(t, f.Close())
	return path
}

func TestLoadLocalFile(t *testing.T) {
	ic := newCache(t)
	path := localPNG(t)

	img, err := load(t, ic, path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 6), img.Bounds())
	assert.Same(t, img, ic.Get(path))

	img, err = load(t, ic, "file://"+path)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
}

func TestLoadMissingFile(t *testing.T) {
	ic := newCache(t)
	_, err := load(t, ic, filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}

func TestDownloadWritesDiskCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/png")
		writePNG(t, w, 8, 12)
	}))
	defer srv.Close()

	ic := newCache(t)
	url := srv.URL + "/Items/abc/Images/Primary"
	img, err := load(t, ic, url)
	require.NoError(t, err)
	assert.Equal(t, 12, img.Bounds().Dy())
	assert.FileExists(t, ic.diskPath(url))

	ic.Clear()
	assert.Nil(t, ic.Get(url))
	_, err = load(t, ic, url)
	require.NoError(t, err)
	assert.EqualValues(t, 1, hits.Load(), "second load should come from disk")
}

func TestDownloadStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	ic := newCache(t)
	_, err := load(t, ic, srv.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestLoadAsyncSharesInFlightLoad(t *testing.T) {
	release := make(chan struct{})
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		writePNG(t, w, 2, 2)
	}))
	defer srv.Close()

	ic := newCache(t)
	url := srv.URL + "/poster"

	var wg sync.WaitGroup
	results := make(chan image.Image, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		ic.LoadAsync(context.Background(), url, func(img image.Image, err error) {
			defer wg.Done()
			assert.NoError(t, err)
			results <- img
		})
	}
	close(release)

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("callbacks not delivered")
	}
	close(results)

	var first image.Image
	for img := range results {
		require.NotNil(t, img)
		if first == nil {
			first = img
		}
		assert.Same(t, first, img)
	}
	assert.EqualValues(t, 1, hits.Load())
	assert.NotNil(t, ic.Get(url))
}

func TestLoadAsyncReportsError(t *testing.T) {
	ic := newCache(t)
	errc := make(chan error, 1)
	ic.LoadAsync(context.Background(), filepath.Join(t.TempDir(), "missing.png"), func(img image.Image, err error) {
		assert.Nil(t, img)
		errc <- err
	})
	select {
	case err := <-errc:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("callback not delivered")
	}
}

func TestLoadAsyncCancelledWhileQueued(t *testing.T) {
	ic := newCache(t)
	path := localPNG(t)

	// occupy every fetch slot so the next load has to wait
	require.NoError(t, ic.sem.Acquire(context.Background(), constants.MaxImageFetches))

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	ic.LoadAsync(ctx, path, func(img image.Image, err error) {
		assert.Nil(t, img)
		errc <- err
	})
	cancel()

	select {
	case err := <-errc:
		assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("queued load not cancelled")
	}
	assert.Nil(t, ic.Get(path))

	ic.sem.Release(constants.MaxImageFetches)
	img, err := load(t, ic, path)
	require.NoError(t, err, "cancelled load must not be remembered")
	assert.Equal(t, 6, img.Bounds().Dy())
}

func TestClearDisk(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writePNG(t, w, 3, 3)
	}))
	defer srv.Close()

	ic := newCache(t)
	url := srv.URL + "/poster"
	_, err := load(t, ic, url)
	require.NoError(t, err)
	require.FileExists(t, ic.diskPath(url))

	require.NoError(t, ic.ClearDisk())
	assert.NoFileExists(t, ic.diskPath(url))
	assert.DirExists(t, ic.cacheDir)

	ic.Clear()
	_, err = load(t, ic, url)
	require.NoError(t, err)
	assert.EqualValues(t, 2, hits.Load())
	assert.FileExists(t, ic.diskPath(url))
}
