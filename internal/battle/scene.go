package battle

import (
	"math/rand/v2"
	"strings"
)

// Environments that have a background in the battle scene
var Environments = []string{"arena", "desert", "lake", "land", "mountain", "night", "sky"}

const (
	WeatherNone      = ""
	WeatherRain      = "rain"
	WeatherSnow      = "snow"
	WeatherSandstorm = "sandstorm"
	WeatherHail      = "hail"
)

var randomWeather = []string{WeatherRain, WeatherSnow, WeatherSandstorm}

// Scene is the visual state of a battle, chosen once when it starts
type Scene struct {
	Environment string
	Weather     string
	Arena       bool
}

// IsArenaBoss reports whether a boss fights in the arena
func IsArenaBoss(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "arena") || strings.Contains(n, "champion") || strings.Contains(n, "elite")
}

func chooseScene(bossName string, rng *rand.Rand) Scene {
	if IsArenaBoss(bossName) {
		return Scene{Environment: "arena", Arena: true}
	}

	scene := Scene{Environment: Environments[rng.IntN(len(Environments))]}
	n := strings.ToLower(bossName)
	switch {
	case strings.Contains(n, "ice"):
		scene.Weather = WeatherSnow
	case strings.Contains(n, "fire"):
		scene.Weather = WeatherNone
	case rng.Float64() < 0.3:
		scene.Weather = randomWeather[rng.IntN(len(randomWeather))]
	}
	return scene
}
