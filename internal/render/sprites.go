package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
)

// DefaultSpriteURL is the PokeAPI sprite repository
const DefaultSpriteURL = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon"

// SpriteSize is the edge length sprites are scaled to
const SpriteSize = 220

var errNoSprite = errors.New("no sprite available")

type spriteKey struct {
	id    int
	shiny bool
	back  bool
}

// SpriteLoader finds sprites on disk first, then over HTTP, and caches the
// scaled result.
type SpriteLoader struct {
	dir     string
	baseURL string
	client  *http.Client
	cache   *Cache[spriteKey, image.Image]
	log     zerolog.Logger
}

// NewSpriteLoader creates a loader. An empty baseURL disables network fetches.
func NewSpriteLoader(dir, baseURL string, client *http.Client, ttl time.Duration, log zerolog.Logger) *SpriteLoader {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &SpriteLoader{
		dir:     dir,
		baseURL: baseURL,
		client:  client,
		cache:   NewCache[spriteKey, image.Image](ttl),
		log:     log.With().Str("component", "sprites").Logger(),
	}
}

// StartJanitor purges expired sprites periodically
func (l *SpriteLoader) StartJanitor(interval time.Duration) func() {
	return l.cache.StartJanitor(interval)
}

// LocalPath returns where a sprite would live on disk
func (l *SpriteLoader) LocalPath(id int, shiny bool) string {
	if shiny {
		return filepath.Join(l.dir, "full_shiny", fmt.Sprintf("%d_full.png", id))
	}
	return filepath.Join(l.dir, "full", fmt.Sprintf("%d.png", id))
}

// URLs lists the network sources tried for a sprite, in order
func (l *SpriteLoader) URLs(id int, shiny, back bool) []string {
	if l.baseURL == "" {
		return nil
	}
	view := "front"
	if back {
		view = "back"
	}
	prefix := ""
	if shiny {
		prefix = "shiny/"
	}
	return []string{
		fmt.Sprintf("%s/%s%s/%d.png", l.baseURL, prefix, view, id),
		fmt.Sprintf("%s/%d.png", l.baseURL, id),
	}
}

// Load returns a SpriteSize square sprite
func (l *SpriteLoader) Load(ctx context.Context, id int, shiny, back bool) (image.Image, error) {
	if id <= 0 {
		return nil, errNoSprite
	}
	key := spriteKey{id: id, shiny: shiny, back: back}
	if img, ok := l.cache.Get(key); ok {
		return img, nil
	}

	img, err := l.load(ctx, key)
	if err != nil {
		return nil, err
	}
	scaled := imaging.Resize(img, SpriteSize, SpriteSize, imaging.Lanczos)
	l.cache.Set(key, scaled)
	return scaled, nil
}

func (l *SpriteLoader) load(ctx context.Context, key spriteKey) (image.Image, error) {
	if l.dir != "" {
		path := l.LocalPath(key.id, key.shiny)
		img, err := imaging.Open(path)
		if err == nil {
			return img, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			l.log.Warn().Err(err).Str("path", path).Msg("Error loading local sprite")
		}
	}

	for _, url := range l.URLs(key.id, key.shiny, key.back) {
		body, err := l.fetch(ctx, url)
		if err != nil {
			l.log.Debug().Err(err).Str("url", url).Msg("Sprite fetch failed")
			continue
		}
		img, err := imaging.Decode(bytes.NewReader(body))
		if err != nil {
			l.log.Debug().Err(err).Str("url", url).Msg("Sprite decode failed")
			continue
		}
		return img, nil
	}
	return nil, fmt.Errorf("%w: pokemon %d", errNoSprite, key.id)
}

func (l *SpriteLoader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sprite request failed with status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
