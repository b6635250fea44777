package factory

import (
	"fmt"

	"github.com/mikey/sms-guard/internal/adapters/bedrock"
	"github.com/mikey/sms-guard/internal/adapters/gemini"
	"github.com/mikey/sms-guard/internal/adapters/openai"
	"github.com/mikey/sms-guard/internal/config"
	"github.com/mikey/sms-guard/internal/core"
	"go.uber.org/zap"
)

// ClassifierFactory creates classifier clients
type ClassifierFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewClassifierFactory creates a new classifier factory
func NewClassifierFactory(cfg *config.Config, logger *zap.Logger) *ClassifierFactory {
	return &ClassifierFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateClassifier creates a new classifier based on the configuration
func (f *ClassifierFactory) CreateClassifier() (core.Classifier, error) {
	classifierConfig := f.cfg.GetClassifier()

	switch classifierConfig.Provider {
	case "bedrock":
		factory := bedrock.NewFactory(f.cfg, f.logger)
		return factory.CreateClassifier()
	case "gemini":
		factory := gemini.NewFactory(f.cfg, f.logger)
		return factory.CreateClassifier()
	case "openai":
		factory := openai.NewFactory(f.cfg, f.logger)
		return factory.CreateClassifier()
	default:
		return nil, fmt.Errorf("unsupported classifier provider: %s", classifierConfig.Provider)
	}
}
