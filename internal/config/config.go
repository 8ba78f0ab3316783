package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Source is one storefront's fetch settings. URL is the listing endpoint
// (JSON API for Epic, HTML pages for the rest).
type Source struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
}

type Config struct {
	HTTP struct {
		// Some storefronts reject default client identifiers, so every
		// outbound request carries a desktop-browser user agent.
		UserAgent      string  `yaml:"user_agent"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
		HostReqPerSec  float64 `yaml:"host_req_per_sec"`
		HostBurst      int     `yaml:"host_burst"`
	} `yaml:"http"`

	Claim struct {
		BatchSize int `yaml:"batch_size"`
	} `yaml:"claim"`

	ClaimLog struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"claim_log"`

	Browser struct {
		Name string `yaml:"name"` // chrome | firefox | brave | "" (system default)
		Path string `yaml:"path"` // explicit binary, overrides the well-known path
	} `yaml:"browser"`

	Backup struct {
		Path string `yaml:"path"`
	} `yaml:"backup"`

	Sources struct {
		Epic    Source `yaml:"epic"`
		Steam   Source `yaml:"steam"`
		GOG     Source `yaml:"gog"`
		Ubisoft Source `yaml:"ubisoft"`
	} `yaml:"sources"`
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// Default returns the stock configuration written on first run.
func Default() Config {
	var cfg Config

	cfg.HTTP.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	cfg.HTTP.TimeoutSeconds = 20
	cfg.HTTP.HostReqPerSec = 2
	cfg.HTTP.HostBurst = 4

	cfg.Claim.BatchSize = 5

	cfg.Sources.Epic = Source{
		Enabled: true,
		URL:     "https://store-site-backend-static.ak.epicgames.com/freeGamesPromotions?locale=en-US&country=US&allowCountries=US",
	}
	cfg.Sources.Steam = Source{
		Enabled: true,
		URL:     "https://store.steampowered.com/search/?maxprice=free&specials=1",
	}
	cfg.Sources.GOG = Source{
		Enabled: true,
		URL:     "https://www.gog.com/en",
	}
	cfg.Sources.Ubisoft = Source{
		Enabled: true,
		URL:     "https://store.ubisoft.com/us/free-games",
	}

	return cfg
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
