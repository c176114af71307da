package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/depeter/couchreel/internal/constants"
)

var httpClient = &http.Client{Timeout: 10 * time.Second}

// LoadFunc receives the outcome of an asynchronous load. It may run on any
// goroutine.
type LoadFunc func(image.Image, error)

// ImageCache provides disk + memory caching for decoded images. Keys are
// http(s) URLs or local file paths.
type ImageCache struct {
	cacheDir string
	memory   sync.Map // key -> image.Image
	loading  sync.Map // key -> *loadEntry (in-flight dedup with waiters)
	sem      *semaphore.Weighted
}

// loadEntry tracks in-flight loads and their waiters.
type loadEntry struct {
	mu        sync.Mutex
	callbacks []LoadFunc
	done      bool
	img       image.Image
	err       error
}

// NewImageCache creates a new image cache with the given disk directory.
func NewImageCache(cacheDir string) (*ImageCache, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, err
	}
	return &ImageCache{
		cacheDir: cacheDir,
		sem:      semaphore.NewWeighted(constants.MaxImageFetches),
	}, nil
}

// Get returns a cached image if available, or nil.
func (ic *ImageCache) Get(key string) image.Image {
	if v, ok := ic.memory.Load(key); ok {
		return v.(image.Image)
	}
	return nil
}

// LoadAsync starts loading an image in the background. Concurrent requests
// for the same key share one load. A load still waiting for a fetch slot
// when ctx is cancelled reports ctx's error and caches nothing.
func (ic *ImageCache) LoadAsync(ctx context.Context, key string, callback LoadFunc) {
	if v, ok := ic.memory.Load(key); ok {
		callback(v.(image.Image), nil)
		return
	}

	entry := &loadEntry{callbacks: []LoadFunc{callback}}
	if existing, loaded := ic.loading.LoadOrStore(key, entry); loaded {
		existingEntry := existing.(*loadEntry)
		existingEntry.mu.Lock()
		if existingEntry.done {
			img, err := existingEntry.img, existingEntry.err
			existingEntry.mu.Unlock()
			callback(img, err)
			return
		}
		existingEntry.callbacks = append(existingEntry.callbacks, callback)
		existingEntry.mu.Unlock()
		return
	}

	go func() {
		img, err := ic.load(ctx, key)
		if err == nil {
			ic.memory.Store(key, img)
		}

		entry.mu.Lock()
		entry.done, entry.img, entry.err = true, img, err
		cbs := entry.callbacks
		entry.callbacks = nil
		entry.mu.Unlock()
		ic.loading.Delete(key)

		for _, cb := range cbs {
			cb(img, err)
		}
	}()
}

func (ic *ImageCache) load(ctx context.Context, key string) (image.Image, error) {
	if err := ic.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer ic.sem.Release(1)

	if !isRemote(key) {
		return decodeFile(strings.TrimPrefix(key, "file://"))
	}
	return ic.download(ctx, key)
}

func isRemote(key string) bool {
	return strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://")
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func (ic *ImageCache) download(ctx context.Context, url string) (image.Image, error) {
	diskPath := ic.diskPath(url)

	// Try disk cache first
	img, err := decodeFile(diskPath)
	if err == nil {
		return img, nil
	}
	if !os.IsNotExist(err) {
		// Corrupt cache file, remove and re-download
		os.Remove(diskPath)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download failed: %s", resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(diskPath), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(diskPath)
	if err != nil {
		return nil, err
	}

	// Tee to disk while decoding
	tee := io.TeeReader(resp.Body, f)
	img, _, err = image.Decode(tee)
	f.Close()
	if err != nil {
		os.Remove(diskPath)
		return nil, err
	}
	return img, nil
}

func (ic *ImageCache) diskPath(url string) string {
	h := sha256.Sum256([]byte(url))
	name := fmt.Sprintf("%x", h[:16])
	return filepath.Join(ic.cacheDir, name[:2], name)
}

// Clear removes all cached images from memory.
func (ic *ImageCache) Clear() {
	ic.memory.Range(func(k, _ any) bool {
		ic.memory.Delete(k)
		return true
	})
}

// ClearDisk removes all cached images from disk. The directory is recreated
// so later downloads can still be written.
func (ic *ImageCache) ClearDisk() error {
	if err := os.RemoveAll(ic.cacheDir); err != nil {
		return err
	}
	return os.MkdirAll(ic.cacheDir, 0o755)
}
