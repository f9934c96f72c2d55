package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// Override adjusts a Config after the file overlay.
type Override func(*Config)

// WithDefaultChain selects the chain used for empty or unknown chain ids.
func WithDefaultChain(id string) Override {
	return func(c *Config) {
		if id != "" {
			c.DefaultChainID = id
		}
	}
}

// Load builds a Catalog from the defaults, overlaid with the JSON document at
// path when path is non-empty. Top-level keys present in the file replace the
// default value wholesale; absent keys keep the default. Overrides apply last.
func Load(path string, logger *zap.Logger, overrides ...Override) (*Catalog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog file: %w", err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal catalog file: %w", err)
		}
	}

	for _, o := range overrides {
		o(&cfg)
	}

	c, err := New(cfg)
	if err != nil {
		return nil, err
	}

	logger.Info("catalog.loaded",
		zap.String("path", path),
		zap.Int("institutions", len(cfg.Institutions)),
		zap.Int("static_accounts", len(cfg.Accounts)),
		zap.Int("chains", len(cfg.Chains)),
		zap.Int("static_wallets", len(cfg.Wallets)),
		zap.Bool("name_tables", cfg.Names.Usable()))

	return c, nil
}
