package app

import (
	"github.com/google/uuid"
	"github.com/mcp-sharepoint/cert-setup/internal/app/config"
	"github.com/mcp-sharepoint/cert-setup/internal/app/provisioner"
	"github.com/mcp-sharepoint/cert-setup/internal/app/toolrunner"
	"github.com/mcp-sharepoint/cert-setup/internal/handler/console"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the application graph. Callers pass fx.Populate to retrieve the *console.Setup.
func New(opts ...fx.Option) *fx.App {
	var logger *zap.Logger

	options := []fx.Option{
		fx.NopLogger,
		fx.Provide(
			config.Load,
			configureLogger,
			newToolRunner,
			fx.Annotate(provisioner.NewProvisioner, fx.As(new(console.CertificateProvisioner))),
			console.NewSetup,
		),
		fx.Populate(&logger),
	}

	app := fx.New(append(options, opts...)...)
	if app.Err() == nil {
		logger.Debug("SharePoint certificate setup starting")
	}

	return app
}

func newToolRunner(cfg *config.Config) toolrunner.ToolRunner {
	return toolrunner.NewExecRunner(cfg.Tool)
}

func configureLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = zap.NewAtomicLevelAt(level)
	loggerConfig.Encoding = "console"
	loggerConfig.DisableStacktrace = true
	loggerConfig.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	loggerConfig.EncoderConfig.TimeKey = "time"
	loggerConfig.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	loggerConfig.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	loggerConfig.InitialFields = map[string]interface{}{"run_id": uuid.NewString()}
	logger, err := loggerConfig.Build()
	if err != nil {
		return nil, err
	}

	zap.ReplaceGlobals(logger)
	zap.RedirectStdLog(zap.L())
	return zap.L(), nil
}
