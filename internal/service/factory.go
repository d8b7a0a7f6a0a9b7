package service

import (
	"github.com/arledger/arledger/internal/config"
	"github.com/arledger/arledger/internal/logger"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
}

// NewServiceParams builds the default dependency bundle
func NewServiceParams(cfg *config.Configuration, log *logger.Logger) ServiceParams {
	return ServiceParams{
		Logger: log,
		Config: cfg,
	}
}
