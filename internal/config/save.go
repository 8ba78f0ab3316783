package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

func Validate(cfg Config) error {
	var errs []string

	if cfg.HTTP.UserAgent == "" {
		errs = append(errs, "http.user_agent is required")
	}
	if cfg.HTTP.TimeoutSeconds <= 0 {
		errs = append(errs, "http.timeout_seconds must be > 0")
	}
	if cfg.Claim.BatchSize <= 0 {
		errs = append(errs, "claim.batch_size must be >= 1")
	}

	switch cfg.Browser.Name {
	case "", "chrome", "firefox", "brave":
	default:
		errs = append(errs, fmt.Sprintf("browser.name %q is not one of chrome, firefox, brave", cfg.Browser.Name))
	}

	check := func(name string, s Source) {
		if s.Enabled && s.URL == "" {
			errs = append(errs, fmt.Sprintf("sources.%s.url is required when enabled", name))
		}
	}
	check("epic", cfg.Sources.Epic)
	check("steam", cfg.Sources.Steam)
	check("gog", cfg.Sources.GOG)
	check("ubisoft", cfg.Sources.Ubisoft)

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + strings.Join(errs, "\n- "))
	}
	return nil
}

func SaveAtomic(path string, cfg Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	bak := path + ".bak"

	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}

	_ = os.Remove(bak)
	_ = os.Rename(path, bak)

	return os.Rename(tmp, path)
}
