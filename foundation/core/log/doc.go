// Package log provides structured logging for Lavoisier.
//
// A Logger writes one Entry per call through a Formatter (JSON, text or
// colored console). Loggers are immutable from the caller's point of view:
// WithField, WithName and friends return configured copies, so a component
// can derive its own logger without affecting others:
//
//	logger := log.GetDefault().WithField("component", "parser")
//	logger.Debug("token scanned", log.Fields{"type": "SYMBOL", "value": "Na"})
//
// Timers measure an operation and log its duration when stopped:
//
//	timer := logger.StartTimer("balance")
//	defer timer.Stop()
package log
