package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/beanatlas/beanatlas"
)

// Ensure LoggingRenderer implements beanatlas.Renderer.
var _ beanatlas.Renderer = (*LoggingRenderer)(nil)

// LoggingRenderer wraps a Renderer with operation logging.
type LoggingRenderer struct {
	next   beanatlas.Renderer
	logger *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer.
func NewLoggingRenderer(next beanatlas.Renderer, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, logger: logger}
}

// RenderText delegates to the wrapped renderer and logs the operation.
func (r *LoggingRenderer) RenderText(ctx context.Context, url string) (text string, err error) {
	defer func(begin time.Time) {
		r.logger.Info("page render",
			"url", url,
			"chars", len(text),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.RenderText(ctx, url)
}

// Close delegates to the wrapped renderer.
func (r *LoggingRenderer) Close() error {
	return r.next.Close()
}
