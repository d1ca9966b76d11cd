package discord

import "fmt"

// Validate checks the settings the bot cannot run without. The OpenAI key is
// optional; without it battles end without a recap.
func (c *Config) Validate() error {
	if c.DiscordToken == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	if c.TeamSize < 1 {
		return fmt.Errorf("team size must be at least 1, got %d", c.TeamSize)
	}
	return nil
}
