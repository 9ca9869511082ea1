// Package logger provides structured logging setup for document store
// applications.
//
// It builds a configured *zap.Logger (JSON encoding, ISO8601 timestamps,
// stderr output) and exposes an fx module for dependency injection. Logger
// configuration is store-instance-scoped: nothing in this package mutates
// global logger state, and adapters that receive no logger fall back to
// zap.NewNop().
//
// Direct usage:
//
//	log, err := logger.New(logger.Config{Level: logger.Info, ServiceName: "docstore"})
//	if err != nil {
//	    return err
//	}
//	defer log.Sync()
package logger
