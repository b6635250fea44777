package factory

import (
	"github.com/mikey/sms-guard/internal/adapters/filter"
	"github.com/mikey/sms-guard/internal/audit"
	"github.com/mikey/sms-guard/internal/config"
	"github.com/mikey/sms-guard/internal/core"
	"github.com/mikey/sms-guard/internal/ports"
	"go.uber.org/zap"
)

// FilterFactory creates message filter front ends based on configuration
type FilterFactory struct {
	cfg      *config.Config
	logger   *zap.Logger
	service  *core.FilterService
	recorder *audit.Recorder
}

// NewFilterFactory creates a new filter factory
func NewFilterFactory(cfg *config.Config, logger *zap.Logger, service *core.FilterService, recorder *audit.Recorder) *FilterFactory {
	return &FilterFactory{
		cfg:      cfg,
		logger:   logger,
		service:  service,
		recorder: recorder,
	}
}

// CreateMessageFilter creates the HTTP message filter front end
func (f *FilterFactory) CreateMessageFilter() (ports.MessageFilter, error) {
	return filter.NewHTTPFilter(
		f.service,
		f.recorder,
		f.logger,
		f.cfg.GetString("server.listen_address"),
		f.cfg.GetInt("server.recent_logs"),
	), nil
}
