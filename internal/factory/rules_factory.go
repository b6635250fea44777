package factory

import (
	"fmt"

	"github.com/mikey/sms-guard/internal/config"
	"github.com/mikey/sms-guard/internal/rules"
	"go.uber.org/zap"
)

// RulesFactory loads the whitelist and blocklist from configuration
type RulesFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewRulesFactory creates a new rules factory
func NewRulesFactory(cfg *config.Config, logger *zap.Logger) *RulesFactory {
	return &RulesFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateWhitelist loads the whitelist file. The file is mandatory; the
// service must not start without it.
func (f *RulesFactory) CreateWhitelist() (*rules.Whitelist, error) {
	spamCfg := f.cfg.GetSpam()
	wl, err := rules.LoadWhitelist(spamCfg.WhitelistPath, f.logger)
	if err != nil {
		return nil, fmt.Errorf("whitelist configuration: %w", err)
	}
	return wl, nil
}

// CreateBlocklist loads the blocklist file when one is configured, falling
// back to the built-in default domains otherwise. A configured file that
// cannot be read is an error.
func (f *RulesFactory) CreateBlocklist() (*rules.Blocklist, error) {
	spamCfg := f.cfg.GetSpam()
	if spamCfg.BlocklistPath == "" {
		return rules.NewBlocklist(rules.DefaultBlockedDomains(), f.logger), nil
	}
	bl, err := rules.LoadBlocklist(spamCfg.BlocklistPath, f.logger)
	if err != nil {
		return nil, fmt.Errorf("blocklist configuration: %w", err)
	}
	return bl, nil
}
