package render

import (
	"image/color"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/fogleman/gg"
)

type weatherEffect struct {
	particles int
	color     color.RGBA
	angle     float64
}

var weatherEffects = map[string]weatherEffect{
	"rain":      {particles: 200, color: rgb(173, 216, 230), angle: -15},
	"snow":      {particles: 150, color: rgb(255, 250, 250), angle: -5},
	"sandstorm": {particles: 300, color: rgb(244, 164, 96), angle: 45},
	"hail":      {particles: 100, color: rgb(240, 248, 255), angle: -30},
}

func drawWeather(dc *gg.Context, weather string, rng *rand.Rand) {
	effect, ok := weatherEffects[weather]
	if !ok {
		return
	}
	w, h := dc.Width(), dc.Height()

	dc.SetColor(effect.color)
	dc.SetLineWidth(2)
	for range effect.particles {
		x := float64(rng.IntN(w + 1))
		y := float64(rng.IntN(h - 50 + 1))

		switch weather {
		case "rain":
			rad := gg.Radians(effect.angle)
			dc.DrawLine(x, y, x+math.Sin(rad)*15, y+math.Cos(rad)*15)
			dc.Stroke()
		case "snow":
			dot(dc, x, y, float64(2+rng.IntN(3)))
		case "sandstorm":
			dot(dc, x, y, float64(1+rng.IntN(3)))
		case "hail":
			dot(dc, x, y, float64(3+rng.IntN(4)))
		}
	}
}

// dot fills the ellipse inscribed in the size x size box at (x, y)
func dot(dc *gg.Context, x, y, size float64) {
	dc.DrawEllipse(x+size/2, y+size/2, size/2, size/2)
	dc.Fill()
}

type moveEffect struct {
	colors  []color.RGBA
	pattern string
}

// Dark and ghost moves have a palette but no pattern is drawn for them
var moveEffects = map[string]moveEffect{
	"fire":     {[]color.RGBA{rgb(255, 69, 0), rgb(255, 140, 0), rgb(255, 215, 0)}, "burst"},
	"water":    {[]color.RGBA{rgb(0, 191, 255), rgb(30, 144, 255), rgb(100, 149, 237)}, "wave"},
	"electric": {[]color.RGBA{rgb(255, 255, 0), rgb(255, 215, 0), rgb(255, 255, 224)}, "bolt"},
	"grass":    {[]color.RGBA{rgb(34, 139, 34), rgb(0, 128, 0), rgb(124, 252, 0)}, "spiral"},
	"ice":      {[]color.RGBA{rgb(173, 216, 230), rgb(176, 224, 230), rgb(240, 248, 255)}, "crystal"},
	"fighting": {[]color.RGBA{rgb(255, 69, 0), rgb(255, 99, 71), rgb(255, 160, 122)}, "impact"},
	"psychic":  {[]color.RGBA{rgb(186, 85, 211), rgb(147, 112, 219), rgb(221, 160, 221)}, "ripple"},
	"dark":     {[]color.RGBA{rgb(105, 105, 105), rgb(128, 128, 128), rgb(169, 169, 169)}, "shadow"},
	"ghost":    {[]color.RGBA{rgb(138, 43, 226), rgb(72, 61, 139), rgb(123, 104, 238)}, "fade"},
	"dragon":   {[]color.RGBA{rgb(148, 0, 211), rgb(138, 43, 226), rgb(75, 0, 130)}, "spiral"},
}

func drawMoveEffect(dc *gg.Context, moveType string, cx, cy, intensity float64, rng *rand.Rand) {
	effect, ok := moveEffects[strings.ToLower(moveType)]
	if !ok {
		return
	}
	colors := effect.colors
	radius := float64(int(40 * intensity))

	switch effect.pattern {
	case "burst":
		dc.SetLineWidth(3)
		for i := range 12 {
			rad := gg.Radians(float64(i * 30))
			for j, c := range colors {
				inner := radius - float64(j*10)
				if inner <= 0 {
					continue
				}
				dc.SetColor(c)
				dc.DrawLine(cx, cy, cx+math.Cos(rad)*inner, cy+math.Sin(rad)*inner)
				dc.Stroke()
			}
		}

	case "wave":
		dc.SetLineWidth(2)
		for i := range 5 {
			r := radius - float64(i*8)
			if r <= 0 {
				continue
			}
			dc.SetColor(colors[i%len(colors)])
			dc.DrawEllipse(cx, cy, r, float64(int(r)/2))
			dc.Stroke()
		}

	case "bolt":
		dc.SetLineWidth(3)
		for i := range 6 {
			rad := gg.Radians(float64(rng.IntN(361)))
			length := float64(int(radius)/2 + rng.IntN(int(radius)-int(radius)/2+1))
			ex := cx + math.Cos(rad)*length
			ey := cy + math.Sin(rad)*length
			mx := math.Floor((cx+ex)/2) + float64(rng.IntN(21)-10)
			my := math.Floor((cy+ey)/2) + float64(rng.IntN(21)-10)

			dc.SetColor(colors[i%len(colors)])
			dc.DrawLine(cx, cy, mx, my)
			dc.LineTo(ex, ey)
			dc.Stroke()
		}

	case "spiral":
		for i := range 50 {
			rad := gg.Radians(float64(i) * 7.2)
			r := float64(i) / 50 * radius
			dc.SetColor(colors[i%len(colors)])
			dc.DrawCircle(cx+math.Cos(rad)*r, cy+math.Sin(rad)*r, 2)
			dc.Fill()
		}

	case "crystal":
		dc.SetLineWidth(2)
		for i := range 8 {
			rad := gg.Radians(float64(i * 45))
			c := colors[i%len(colors)]
			dc.SetColor(c)
			dc.DrawLine(cx, cy, cx+math.Cos(rad)*radius, cy+math.Sin(rad)*radius)
			dc.Stroke()
			for j := range 3 {
				d := radius * (0.3 + float64(j)*0.3)
				dc.DrawCircle(cx+math.Cos(rad)*d, cy+math.Sin(rad)*d, 3)
				dc.Fill()
			}
		}

	case "impact":
		rings(dc, colors, cx, cy, radius, 4, 10, 3)

	case "ripple":
		rings(dc, colors, cx, cy, radius, 6, 6, 2)
	}
}

// rings strokes n concentric circles shrinking by step
func rings(dc *gg.Context, colors []color.RGBA, cx, cy, radius float64, n int, step, width float64) {
	dc.SetLineWidth(width)
	for i := range n {
		r := radius - float64(i)*step
		if r <= 0 {
			continue
		}
		dc.SetColor(colors[i%len(colors)])
		dc.DrawCircle(cx, cy, r)
		dc.Stroke()
	}
}
