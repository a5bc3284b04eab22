// Package assets loads page textures from a directory. Decoding runs off the
// frame loop; GPU upload happens on the caller's thread through Poll.
package assets

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/folio/internal/book"
)

// ErrNotFound is returned when no image file exists for a surface.
var ErrNotFound = errors.New("assets: surface not found")

// Extensions are tried in order when resolving a surface id to a file.
var Extensions = []string{".png", ".jpg", ".jpeg", ".webp", ".bmp", ".tga"}

// Options configures a Manager.
type Options struct {
	Dir      string           // directory holding <surface>.<ext> files
	MaxSize  int              // longest side after downscaling, 0 keeps source size
	Workers  int              // concurrent decodes, at least 1
	Circular []book.SurfaceID // surfaces cropped to a circle after decoding
	Log      *zap.Logger
}

// Uploader turns a decoded image into a renderer texture. It runs on the
// goroutine that calls Poll.
type Uploader func(id book.SurfaceID, img *image.RGBA) (book.Texture, error)

// Manager resolves surfaces to textures. It satisfies book.AssetSource:
// asking for a texture that is not loaded yet starts loading it and reports
// not ready, so leaves draw placeholders until Poll has uploaded it.
type Manager struct {
	opts     Options
	cache    *Cache
	circular map[book.SurfaceID]bool
	log      *zap.Logger
	sem      chan struct{}
	wg       sync.WaitGroup

	mu       sync.Mutex
	textures map[book.SurfaceID]book.Texture
	pending  map[book.SurfaceID]bool
	failed   map[book.SurfaceID]error
	ready    []book.SurfaceID
}

// NewManager creates a new asset manager.
func NewManager(opts Options) *Manager {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manager{
		opts:     opts,
		cache:    NewCache(),
		circular: make(map[book.SurfaceID]bool, len(opts.Circular)),
		log:      log,
		sem:      make(chan struct{}, opts.Workers),
		textures: make(map[book.SurfaceID]book.Texture),
		pending:  make(map[book.SurfaceID]bool),
		failed:   make(map[book.SurfaceID]error),
	}
	for _, id := range opts.Circular {
		m.circular[id] = true
	}
	return m
}

// Path returns the file backing id.
func (m *Manager) Path(id book.SurfaceID) (string, error) {
	if id == "" {
		return "", fmt.Errorf("%w: empty id", ErrNotFound)
	}
	for _, ext := range Extensions {
		p := filepath.Join(m.opts.Dir, string(id)+ext)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %s in %s", ErrNotFound, id, m.opts.Dir)
}

// Load decodes id synchronously, using the cache when possible.
func (m *Manager) Load(id book.SurfaceID) (*image.RGBA, error) {
	if img, ok := m.cache.Get(id); ok {
		return img, nil
	}
	path, err := m.Path(id)
	if err != nil {
		return nil, err
	}
	img, err := DecodeFile(path, m.opts.MaxSize)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", id, err)
	}
	if m.circular[id] {
		img = CircleCrop(img)
	}
	m.cache.Set(id, img)
	return img, nil
}

// Request starts decoding id in the background unless it is already loaded,
// loading or known to be missing.
func (m *Manager) Request(id book.SurfaceID) {
	m.mu.Lock()
	if !m.claim(id) {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.sem <- struct{}{}
		defer func() { <-m.sem }()
		m.finish(id, m.loadErr(id))
	}()
}

// Preload decodes ids in parallel and waits for them. Missing or broken
// files do not stop the others; their errors are joined.
func (m *Manager) Preload(ctx context.Context, ids []book.SurfaceID) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.opts.Workers)

	var (
		errMu sync.Mutex
		errs  []error
	)
	for _, id := range ids {
		m.mu.Lock()
		claimed := m.claim(id)
		m.mu.Unlock()
		if !claimed {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				m.release(id)
				return err
			}
			err := m.loadErr(id)
			m.finish(id, err)
			if err != nil {
				errMu.Lock()
				errs = append(errs, err)
				errMu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return errors.Join(errs...)
}

// Poll uploads every decoded image waiting for the GPU and returns how many
// became ready. A nil upload stores the decoded image itself as the texture.
func (m *Manager) Poll(upload Uploader) int {
	m.mu.Lock()
	ready := m.ready
	m.ready = nil
	m.mu.Unlock()

	n := 0
	for _, id := range ready {
		img, ok := m.cache.Get(id)
		if !ok {
			m.release(id)
			continue
		}
		var tex book.Texture = img
		if upload != nil {
			var err error
			if tex, err = upload(id, img); err != nil {
				m.log.Warn("texture upload failed", zap.String("surface", string(id)), zap.Error(err))
				m.mu.Lock()
				m.failed[id] = err
				delete(m.pending, id)
				m.mu.Unlock()
				continue
			}
		}
		m.mu.Lock()
		m.textures[id] = tex
		delete(m.pending, id)
		m.mu.Unlock()
		n++
	}
	return n
}

// Texture returns the uploaded texture for id. While it is unavailable the
// load is requested and ok is false.
func (m *Manager) Texture(id book.SurfaceID) (book.Texture, bool) {
	m.mu.Lock()
	tex, ok := m.textures[id]
	m.mu.Unlock()
	if ok {
		return tex, true
	}
	m.Request(id)
	return nil, false
}

// Err returns the load or upload error recorded for id, if any.
func (m *Manager) Err(id book.SurfaceID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failed[id]
}

// Textures returns a copy of every uploaded texture, e.g. for release.
func (m *Manager) Textures() map[book.SurfaceID]book.Texture {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[book.SurfaceID]book.Texture, len(m.textures))
	for id, tex := range m.textures {
		out[id] = tex
	}
	return out
}

// Wait blocks until background requests finish.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// Close waits for background work and drops every cached image and texture.
func (m *Manager) Close() {
	m.wg.Wait()
	m.mu.Lock()
	m.textures = make(map[book.SurfaceID]book.Texture)
	m.pending = make(map[book.SurfaceID]bool)
	m.ready = nil
	m.mu.Unlock()
	m.cache.Clear()
}

// claim marks id as in flight until it is uploaded or fails. m.mu must be
// held.
func (m *Manager) claim(id book.SurfaceID) bool {
	if m.pending[id] || m.failed[id] != nil {
		return false
	}
	if _, ok := m.textures[id]; ok {
		return false
	}
	m.pending[id] = true
	return true
}

func (m *Manager) loadErr(id book.SurfaceID) error {
	_, err := m.Load(id)
	return err
}

func (m *Manager) release(id book.SurfaceID) {
	m.mu.Lock()
	delete(m.pending, id)
	m.mu.Unlock()
}

func (m *Manager) finish(id book.SurfaceID, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		delete(m.pending, id)
		m.failed[id] = err
		m.log.Warn("surface unavailable", zap.String("surface", string(id)), zap.Error(err))
		return
	}
	m.ready = append(m.ready, id)
	m.log.Debug("surface decoded", zap.String("surface", string(id)))
}
