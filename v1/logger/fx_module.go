package logger

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// FXModule integrates the logger into an Fx-based application. It provides
// the *zap.Logger factory and registers a shutdown hook that flushes any
// buffered log entries on application stop.
//
// Usage:
//
//	app := fx.New(
//	    logger.FXModule,
//	    fx.Provide(func() logger.Config {
//	        return logger.Config{Level: logger.Info, ServiceName: "docstore"}
//	    }),
//	    // other modules...
//	)
//
// A logger.Config instance must be available in the dependency injection
// container.
var FXModule = fx.Module("logger",
	fx.Provide(New),
	fx.Invoke(registerLoggerLifecycle),
)

func registerLoggerLifecycle(lc fx.Lifecycle, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			// Sync may legitimately fail on stderr; nothing to do about it.
			_ = log.Sync()
			return nil
		},
	})
}
