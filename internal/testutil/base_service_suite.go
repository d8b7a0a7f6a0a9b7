package testutil

import (
	"context"
	"time"

	"github.com/arledger/arledger/internal/config"
	"github.com/arledger/arledger/internal/logger"
	"github.com/stretchr/testify/suite"
)

// BaseServiceTestSuite provides common functionality for all service test
// suites: a context, a quiet logger, a default configuration and a fixed
// clock so results are reproducible.
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	logger *logger.Logger
	config *config.Configuration
	now    time.Time
}

// SetupTest initializes the test environment before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = context.Background()

	var err error
	s.logger, err = logger.NewLogger("error")
	s.Require().NoError(err)

	s.config = config.GetDefaultConfig()
	s.now = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetNow returns the fixed test clock
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}
