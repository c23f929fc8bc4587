package httpx

import (
	"io"
	"log/slog"
)

// discardLogger returns a logger whose output goes nowhere. Test helper.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
