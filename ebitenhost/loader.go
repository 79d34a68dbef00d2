package ebitenhost

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/phanxgames/electric"
)

// Source fetches the raw bytes of an asset by name.
type Source func(name string) ([]byte, error)

// DirSource reads assets relative to dir.
func DirSource(dir string) Source {
	return func(name string) ([]byte, error) {
		return os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
	}
}

// FallbackSource tries each source in turn and returns the first success.
func FallbackSource(sources ...Source) Source {
	return func(name string) ([]byte, error) {
		err := fmt.Errorf("asset %s: no sources", name)
		for _, src := range sources {
			data, e := src(name)
			if e == nil {
				return data, nil
			}
			err = e
		}
		return nil, err
	}
}

type completion struct {
	img  image.Image
	err  error
	done func(electric.Image, error)
}

// Loader implements electric.ImageLoader. Images are fetched and decoded on
// goroutines; completions wait in a queue until Drain delivers them on the
// game goroutine. Decoded images are uploaded lazily by the Surface.
type Loader struct {
	source Source
	log    *zap.Logger

	mu      sync.Mutex
	pending []completion
	wg      sync.WaitGroup
}

// NewLoader returns a loader reading from source.
func NewLoader(source Source, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{source: source, log: log}
}

// LoadImage starts an asynchronous load.
func (l *Loader) LoadImage(src string, done func(electric.Image, error)) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		img, err := l.decode(src)
		l.mu.Lock()
		l.pending = append(l.pending, completion{img: img, err: err, done: done})
		l.mu.Unlock()
	}()
}

func (l *Loader) decode(src string) (image.Image, error) {
	data, err := l.source(src)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", src, err)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", src, err)
	}
	l.log.Debug("image decoded", zap.String("src", src), zap.String("format", format))
	return img, nil
}

// Drain delivers every finished load and returns how many ran.
func (l *Loader) Drain() int {
	l.mu.Lock()
	batch := l.pending
	l.pending = nil
	l.mu.Unlock()
	for _, c := range batch {
		if c.err != nil {
			c.done(nil, c.err)
			continue
		}
		c.done(c.img, nil)
	}
	return len(batch)
}

// Wait blocks until every started load is queued for Drain.
func (l *Loader) Wait() {
	l.wg.Wait()
}
