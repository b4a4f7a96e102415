// Package config loads process configuration: the recreation-area registry
// for the booking platform from an optional TOML file, and delivery
// credentials from the environment (a .env file is honored when present).
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/campscout/campscout/internal/providers"
)

type Config struct {
	GoingToCamp providers.GoingToCampConfig
	Discord     DiscordConfig
}

type DiscordConfig struct {
	WebhookID    string
	WebhookToken string
}

// fileConfig is the on-disk TOML shape.
type fileConfig struct {
	RequestsPerSecond   float64    `toml:"requests_per_second"`
	BookableCategoryIDs []int      `toml:"bookable_category_ids"`
	RecreationAreas     []fileArea `toml:"recreation_area"`
}

type fileArea struct {
	Hostname string `toml:"hostname"`
	ID       int    `toml:"id"`
	Name     string `toml:"name"`
	Location string `toml:"location"`
}

// Load builds the configuration. Defaults cover the known GoingToCamp areas;
// a TOML file at path replaces the registry wholesale when it declares any
// areas. path == "" means defaults only.
func Load(path string) (*Config, error) {
	// .env is optional; missing file is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		GoingToCamp: providers.DefaultGoingToCampConfig(),
		Discord: DiscordConfig{
			WebhookID:    os.Getenv("DISCORD_WEBHOOK_ID"),
			WebhookToken: os.Getenv("DISCORD_WEBHOOK_TOKEN"),
		},
	}
	if path == "" {
		return cfg, nil
	}

	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if fc.RequestsPerSecond > 0 {
		cfg.GoingToCamp.RequestsPerSecond = fc.RequestsPerSecond
	}
	if len(fc.BookableCategoryIDs) > 0 {
		cfg.GoingToCamp.BookableCategoryIDs = fc.BookableCategoryIDs
	}
	if len(fc.RecreationAreas) > 0 {
		areas := make([]providers.GoingToCampArea, 0, len(fc.RecreationAreas))
		for _, a := range fc.RecreationAreas {
			if a.Hostname == "" || a.ID == 0 {
				return nil, fmt.Errorf("config %s: recreation_area needs hostname and id", path)
			}
			areas = append(areas, providers.GoingToCampArea{
				Hostname: a.Hostname,
				Area:     providers.RecreationArea{ID: a.ID, Name: a.Name, Location: a.Location},
			})
		}
		cfg.GoingToCamp.Areas = areas
	}
	return cfg, nil
}
