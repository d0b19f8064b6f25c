package resolve

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/drips-network/gardener-sub000/pkg/errors"
)

// aliasFile is the on-disk TOML shape for user-supplied alias rules.
type aliasFile struct {
	BaseURL    string          `toml:"base_url"`
	Extensions []string        `toml:"extensions"`
	Paths      []aliasFilePath `toml:"paths"`
	Rules      []aliasFileRule `toml:"rules"`
}

type aliasFilePath struct {
	Pattern string   `toml:"pattern"`
	Targets []string `toml:"targets"`
}

type aliasFileRule struct {
	Pattern     string   `toml:"pattern"`
	Targets     []string `toml:"targets"`
	Priority    int      `toml:"priority"`
	Description string   `toml:"description"`
}

// LoadAliasFile reads custom alias rules from a TOML file and merges
// them over the built-in defaults. Rules keep their declared priority
// ordering; path entries keep declaration order.
func LoadAliasFile(path string) (*AliasConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "reading alias file %s", path)
	}

	var file aliasFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parsing alias file %s", path)
	}

	cfg := NewAliasConfig()
	cfg.BaseURL = file.BaseURL
	for _, ext := range file.Extensions {
		if !containsString(cfg.Extensions, ext) {
			cfg.Extensions = append(cfg.Extensions, ext)
		}
	}
	for _, p := range file.Paths {
		cfg.AddPath(p.Pattern, p.Targets...)
	}
	for _, r := range file.Rules {
		cfg.AddCustomRule(AliasRule{
			Pattern:     r.Pattern,
			Targets:     r.Targets,
			Priority:    r.Priority,
			Description: r.Description,
		})
	}
	return cfg, nil
}
