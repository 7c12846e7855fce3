package testutil

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// Logger returns a zap logger that writes through t.
func Logger(t testing.TB) *zap.Logger {
	return zaptest.NewLogger(t)
}
