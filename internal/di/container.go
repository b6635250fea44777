package di

import (
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/sms-guard/internal/audit"
	"github.com/mikey/sms-guard/internal/config"
	"github.com/mikey/sms-guard/internal/core"
	"github.com/mikey/sms-guard/internal/factory"
	"github.com/mikey/sms-guard/internal/logging"
	"github.com/mikey/sms-guard/internal/ports"
	"github.com/mikey/sms-guard/internal/rules"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewClassifierFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewRulesFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewFilterFactory); err != nil {
		return nil, err
	}

	// Register classifier client
	if err := container.Provide(func(f *factory.ClassifierFactory) (core.Classifier, error) {
		return f.CreateClassifier()
	}); err != nil {
		return nil, err
	}

	// Register classification cache
	if err := container.Provide(func(f *factory.CacheFactory) (core.ClassificationCache, error) {
		return f.CreateClassificationCache()
	}); err != nil {
		return nil, err
	}

	// Register cache TTL and enabled flag
	if err := container.Provide(func(f *factory.CacheFactory) (time.Duration, error) {
		return f.GetCacheTTL()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.CacheFactory) bool {
		return f.IsCacheEnabled()
	}); err != nil {
		return nil, err
	}

	// Register whitelist and blocklist. Both are load-or-fail: the service
	// refuses to start without its rule sets.
	if err := container.Provide(func(f *factory.RulesFactory) (*rules.Whitelist, error) {
		return f.CreateWhitelist()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.RulesFactory) (*rules.Blocklist, error) {
		return f.CreateBlocklist()
	}); err != nil {
		return nil, err
	}

	// Register spam threshold
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) float64 {
		threshold := cfg.GetFloat64("spam.threshold")
		logger.Info("Using spam threshold", zap.Float64("threshold", threshold))
		return threshold
	}); err != nil {
		return nil, err
	}

	// Register audit recorder
	if err := container.Provide(func(cfg *config.Config) *audit.Recorder {
		return audit.NewRecorder(cfg.GetInt("server.recent_logs"))
	}); err != nil {
		return nil, err
	}

	// Register filter service
	if err := container.Provide(core.NewFilterService); err != nil {
		return nil, err
	}

	// Register message filter
	if err := container.Provide(func(f *factory.FilterFactory) (ports.MessageFilter, error) {
		return f.CreateMessageFilter()
	}); err != nil {
		return nil, err
	}

	return container, nil
}
