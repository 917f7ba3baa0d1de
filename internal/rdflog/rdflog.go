// Package rdflog is the façade's ambient logging wrapper: a thin
// logr-shaped handle over go.uber.org/zap, sized for a library rather
// than a service (no output-path/production switch; callers that want
// one point zap.ReplaceGlobals before calling New).
package rdflog

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
)

// Log wraps a logr.Logger so callers outside this module never import
// zap or logr directly.
type Log struct {
	logr.Logger
}

// New builds a named logger backed by zap's current global logger.
func New(name string) *Log {
	return &Log{Logger: zapr.NewLogger(zap.L()).WithName(name)}
}

// With returns a sub-logger carrying the given key/value pairs on
// every subsequent call.
func (l *Log) With(kv ...interface{}) *Log {
	return &Log{Logger: l.Logger.WithValues(kv...)}
}

// Debug logs at V(1), the level this module uses for
// denial/evaluation diagnostics that must never be on by default.
func (l *Log) Debug(msg string, kv ...interface{}) {
	l.Logger.V(1).Info(msg, kv...)
}
