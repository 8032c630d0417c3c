// Package logger builds the zap logger used across the service.
//
// Level "debug" selects zap's development config; any other level selects the
// production config at that level. Format picks json or console encoding.
//
// WithRayID attaches the request ray id (set by the rayid middleware) to a
// logger so every line written while handling a request can be correlated.
//
// # Usage
//
//	log, _ := logger.New(&cfg.Log)
//	log.Info("Server started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
