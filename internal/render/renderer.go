package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math/rand/v2"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"

	"github.com/hunterjsb/pokebot/internal/battle"
)

const (
	Width  = 1000
	Height = 700

	fontSize = 24
)

var fallbackColors = map[string]color.RGBA{
	"arena":    rgb(64, 64, 64),
	"desert":   rgb(244, 164, 96),
	"lake":     rgb(70, 130, 180),
	"land":     rgb(34, 139, 34),
	"mountain": rgb(105, 105, 105),
	"night":    rgb(25, 25, 112),
	"sky":      rgb(135, 206, 235),
}

func rgb(r, g, b uint8) color.RGBA { return color.RGBA{R: r, G: g, B: b, A: 255} }

// SpriteIDFunc maps a creature name to the pokedex id its sprite is stored under
type SpriteIDFunc func(name string, fallback int) int

// Options configure a Renderer
type Options struct {
	BackgroundDir string
	SpriteDir     string
	// SpriteBaseURL is where missing sprites are downloaded from; empty disables downloads
	SpriteBaseURL string
	SpriteTTL     time.Duration
	HTTPClient    *http.Client
	SpriteID      SpriteIDFunc
	// Seed fixes the particle layout; zero seeds from the clock
	Seed   uint64
	Logger zerolog.Logger
}

// Renderer draws battle scenes as PNG images. It is safe for concurrent use.
type Renderer struct {
	opts    Options
	sprites *SpriteLoader
	font    *opentype.Font
	log     zerolog.Logger
}

func NewRenderer(opts Options) (*Renderer, error) {
	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("error parsing font: %w", err)
	}
	if opts.SpriteID == nil {
		opts.SpriteID = func(_ string, fallback int) int { return fallback }
	}
	return &Renderer{
		opts:    opts,
		sprites: NewSpriteLoader(opts.SpriteDir, opts.SpriteBaseURL, opts.HTTPClient, opts.SpriteTTL, opts.Logger),
		font:    f,
		log:     opts.Logger.With().Str("component", "render").Logger(),
	}, nil
}

// Sprites exposes the renderer's sprite loader
func (r *Renderer) Sprites() *SpriteLoader { return r.sprites }

func (r *Renderer) newRand() *rand.Rand {
	seed := r.opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func (r *Renderer) face() (font.Face, error) {
	return opentype.NewFace(r.font, &opentype.FaceOptions{Size: fontSize, DPI: 72, Hinting: font.HintingFull})
}

// Render draws the scene for a battle snapshot and returns PNG bytes
func (r *Renderer) Render(ctx context.Context, snap battle.Snapshot) ([]byte, error) {
	img, err := r.Draw(ctx, snap)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("error encoding battle scene: %w", err)
	}
	return buf.Bytes(), nil
}

// Draw composes the battle scene image
func (r *Renderer) Draw(ctx context.Context, snap battle.Snapshot) (image.Image, error) {
	face, err := r.face()
	if err != nil {
		return nil, fmt.Errorf("error creating font face: %w", err)
	}
	defer face.Close()

	rng := r.newRand()
	dc := gg.NewContextForImage(r.background(snap.Scene.Environment))
	dc.SetFontFace(face)

	if snap.Scene.Weather != "" {
		drawWeather(dc, snap.Scene.Weather, rng)
	}

	userX, userY := 120, Height-350
	bossX, bossY := Width-350, Height-400
	r.drawPokemon(ctx, dc, snap.User, userX, userY, true)
	r.drawPokemon(ctx, dc, snap.Boss, bossX, bossY, false)

	if hit := snap.LastHit; hit != nil {
		x, y := userX, userY
		if hit.Target == battle.SideBoss {
			x, y = bossX, bossY
		}
		drawMoveEffect(dc, hit.MoveType, float64(x+SpriteSize/2), float64(y+SpriteSize/2), 1.0, rng)
	}

	userLabel := fmt.Sprintf("%s (Lv.%d)", snap.User.DisplayName(), snap.User.Level)
	drawOutlinedText(dc, userLabel, 20, Height-60, color.White, 2)
	bossLabel := fmt.Sprintf("%s (Lv.%d)", snap.Boss.Name, snap.Boss.Level)
	tw, _ := dc.MeasureString(bossLabel)
	drawOutlinedText(dc, bossLabel, Width-tw-20, 30, color.White, 2)

	drawHPBar(dc, userX-20, userY-50, snap.User.DisplayName(), &snap.User)
	drawHPBar(dc, bossX-20, bossY-50, snap.Boss.Name, &snap.Boss)

	if snap.Log != "" {
		drawLogBox(dc, snap.Log)
	}

	return enhance(dc.Image()), nil
}

// background loads the environment's backdrop, falling back to a flat colour
func (r *Renderer) background(env string) image.Image {
	if r.opts.BackgroundDir != "" {
		path := filepath.Join(r.opts.BackgroundDir, env+".png")
		bg, err := imaging.Open(path)
		switch {
		case err == nil:
			if b := bg.Bounds(); b.Dx() != Width || b.Dy() != Height {
				bg = imaging.Resize(bg, Width, Height, imaging.Lanczos)
			}
			return bg
		case !errors.Is(err, os.ErrNotExist):
			r.log.Warn().Err(err).Str("path", path).Msg("Error loading background")
		}
	}

	c, ok := fallbackColors[env]
	if !ok {
		c = fallbackColors["land"]
	}
	return imaging.New(Width, Height, c)
}

func (r *Renderer) drawPokemon(ctx context.Context, dc *gg.Context, p battle.Pokemon, x, y int, back bool) {
	id := r.opts.SpriteID(p.Name, p.PokemonID)
	sprite, err := r.sprites.Load(ctx, id, p.Shiny, back)
	if err != nil {
		r.log.Debug().Err(err).Str("pokemon", p.Name).Msg("Drawing silhouette")
		dc.SetColor(rgb(50, 50, 50))
		dc.DrawCircle(float64(x+SpriteSize/2), float64(y+SpriteSize/2), 75)
		dc.Fill()
		return
	}

	// shadow under the sprite
	dc.SetRGBA255(0, 0, 0, 100)
	dc.DrawEllipse(float64(x+SpriteSize/2), float64(y+SpriteSize), SpriteSize/4, 10)
	dc.Fill()

	dc.DrawImage(sprite, x, y)
}

// HPColor picks the HP bar colour for the remaining fraction of HP
func HPColor(ratio float64) color.RGBA {
	switch {
	case ratio > 0.5:
		return rgb(0, 255, 0)
	case ratio > 0.2:
		return rgb(255, 255, 0)
	}
	return rgb(255, 0, 0)
}

func drawHPBar(dc *gg.Context, x, y int, name string, p *battle.Pokemon) {
	fx, fy := float64(x), float64(y)

	dc.DrawRoundedRectangle(fx, fy, 260, 30, 10)
	dc.SetColor(rgb(50, 50, 50))
	dc.FillPreserve()
	dc.SetColor(color.White)
	dc.SetLineWidth(2)
	dc.Stroke()

	ratio := p.HPRatio()
	if fill := float64(int(235 * ratio)); fill > 0 {
		dc.DrawRoundedRectangle(fx+2, fy+2, fill, 26, 8)
		dc.SetColor(HPColor(ratio))
		dc.Fill()
	}

	drawOutlinedText(dc, fmt.Sprintf("%s (Lv.%d)", name, p.Level), fx+5, fy-25, color.White, 2)
	dc.SetColor(color.White)
	dc.DrawStringAnchored(fmt.Sprintf("HP: %d/%d", p.CurrentHP, p.MaxHP), fx+5, fy+5, 0, 0.8)
}

const (
	logLineWidth = 75
	logMaxLines  = 4
	logLineStep  = 25
)

func drawLogBox(dc *gg.Context, text string) {
	top := float64(Height - 140)

	dc.DrawRoundedRectangle(20, top, Width-40, 120, 15)
	dc.SetRGBA255(0, 0, 0, 180)
	dc.FillPreserve()
	dc.SetColor(color.White)
	dc.SetLineWidth(2)
	dc.Stroke()

	drawOutlinedText(dc, "Latest Action", 30, top+10, rgb(255, 215, 0), 1)
	for i, line := range WrapLog(text, logLineWidth, logMaxLines) {
		drawOutlinedText(dc, line, 30, top+40+float64(i*logLineStep), color.White, 1)
	}
}

// drawOutlinedText draws text with its top-left corner at (x, y) and a
// black outline of the given width
func drawOutlinedText(dc *gg.Context, s string, x, y float64, fill color.Color, stroke int) {
	dc.SetColor(color.Black)
	for dy := -stroke; dy <= stroke; dy++ {
		for dx := -stroke; dx <= stroke; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			dc.DrawStringAnchored(s, x+float64(dx), y+float64(dy), 0, 0.8)
		}
	}
	dc.SetColor(fill)
	dc.DrawStringAnchored(s, x, y, 0, 0.8)
}

func enhance(img image.Image) image.Image {
	out := imaging.Sharpen(img, 1)
	out = imaging.AdjustContrast(out, 10)
	return imaging.AdjustSaturation(out, 10)
}
