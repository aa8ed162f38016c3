package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/noah-isme/employee-admin-client/pkg/config"
)

func New(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Env == config.EnvProduction {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Log.Format {
	case "json":
		zapCfg.Encoding = "json"
	default:
		zapCfg.Encoding = "console"
	}

	if cfg.Log.Level != "" {
		if err := zapCfg.Level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}
	}

	if out := cfg.Log.Output; out != "" {
		if out != "stderr" && out != "stdout" {
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return nil, err
			}
		}
		zapCfg.OutputPaths = []string{out}
		zapCfg.ErrorOutputPaths = []string{out}
	}

	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zapCfg.Build()
}

// Interactive returns a copy of cfg whose log output is redirected away from the
// terminal so it does not corrupt a full-screen UI.
func Interactive(cfg *config.Config, path string) *config.Config {
	clone := *cfg
	if clone.Log.Output == "" || clone.Log.Output == "stderr" || clone.Log.Output == "stdout" {
		clone.Log.Output = path
	}
	return &clone
}
