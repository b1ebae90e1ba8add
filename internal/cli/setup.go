package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/acheong08/guardian-angel/internal/config"
	"github.com/acheong08/guardian-angel/internal/logging"
	"github.com/acheong08/guardian-angel/internal/orchestrator"
	"github.com/acheong08/guardian-angel/internal/server"
	"github.com/acheong08/guardian-angel/pkg/models"
)

// reviewService is what the commands need from the orchestrator
type reviewService interface {
	server.Reviewer
	Review(ctx context.Context, code string) (*models.Review, error)
}

// newService builds the orchestrator; tests swap it for a stub
var newService = func(ctx context.Context, cfg config.Config, logger *zap.SugaredLogger) (reviewService, error) {
	o, err := orchestrator.New(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// loadConfig reads the environment and applies flag overrides
func loadConfig() (config.Config, error) {
	var files []string
	if flagEnvFile != "" {
		files = append(files, flagEnvFile)
	}

	cfg, err := config.Load(files...)
	if flagModel != "" {
		cfg.Model = flagModel
		err = cfg.Validate()
	}
	if flagDebug {
		cfg.Debug = true
	}
	return cfg, err
}

// setup loads configuration, builds the logger and the review service.
// On failure it reports the error, sets the exit code and returns ok=false.
func setup(cmd *cobra.Command) (svc reviewService, cfg config.Config, logger *zap.SugaredLogger, ok bool) {
	cfg, err := loadConfig()
	if err != nil {
		fail(cmd, err)
		return nil, cfg, nil, false
	}

	logger, err = logging.New(cfg.Debug)
	if err != nil {
		fail(cmd, fmt.Errorf("failed to create logger: %w", err))
		return nil, cfg, nil, false
	}

	svc, err = newService(cmd.Context(), cfg, logger)
	if err != nil {
		fail(cmd, err)
		return nil, cfg, logger, false
	}
	return svc, cfg, logger, true
}

// fail prints err and picks the exit code for it
func fail(cmd *cobra.Command, err error) {
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	if config.IsConfigError(err) {
		exitCode = ExitConfigError
		return
	}
	exitCode = ExitRuntimeError
}
