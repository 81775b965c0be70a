package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/beanatlas/beanatlas"
)

// DefaultChunkSize bounds the number of records persisted per flush.
const DefaultChunkSize = 10

// WriterStats reports the outcome of a writer's lifetime.
type WriterStats struct {
	Saved   int
	Failed  int
	Flushes int
}

// Writer buffers extracted coffees and flushes them to storage in bounded
// chunks: a full chunk whenever the buffer reaches ChunkSize, plus a final
// partial flush. Chunking bounds the size of any single write burst and
// limits data loss on mid-run failure to at most one chunk.
//
// Each record in a chunk is persisted independently; one record's failure
// never blocks the others. Failures are recorded as error-status
// placeholders so they stay visible and retry-able.
type Writer struct {
	coffees beanatlas.CoffeeService
	graph   beanatlas.GraphSyncer
	logger  *slog.Logger

	chunkSize int
	buf       []*beanatlas.Coffee
	stats     WriterStats
}

// NewWriter creates a Writer flushing to the given coffee service. The graph
// syncer is optional and strictly best-effort.
func NewWriter(coffees beanatlas.CoffeeService, graph beanatlas.GraphSyncer, logger *slog.Logger, chunkSize int) *Writer {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		coffees:   coffees,
		graph:     graph,
		logger:    logger,
		chunkSize: chunkSize,
	}
}

// Push buffers a coffee and flushes when the buffer reaches the chunk size.
func (w *Writer) Push(ctx context.Context, coffee *beanatlas.Coffee) error {
	w.buf = append(w.buf, coffee)
	if len(w.buf) >= w.chunkSize {
		return w.flush(ctx)
	}
	return nil
}

// Flush persists any buffered remainder. Call once after the last Push.
func (w *Writer) Flush(ctx context.Context) error {
	if len(w.buf) == 0 {
		return nil
	}
	return w.flush(ctx)
}

// Stats returns cumulative save/fail/flush counts.
func (w *Writer) Stats() WriterStats {
	return w.stats
}

func (w *Writer) flush(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	chunk := w.buf
	w.buf = nil
	w.stats.Flushes++

	for _, coffee := range chunk {
		// Records already tagged as errors (retry-exhausted placeholders)
		// are persisted as-is so the failure stays visible.
		if coffee.Status == beanatlas.StatusError {
			w.stats.Failed++
			if err := w.persistPlaceholder(ctx, coffee); err != nil {
				w.logger.Error("persist error placeholder",
					"roaster", coffee.RoasterID,
					"url", coffee.SourceURL,
					"err", err)
			}
			continue
		}

		if err := w.persistOne(ctx, coffee); err != nil {
			w.stats.Failed++
			w.logger.Error("persist coffee",
				"roaster", coffee.RoasterID,
				"name", coffee.Name,
				"url", coffee.SourceURL,
				"err", err)
			w.recordFailure(ctx, coffee, err)
			continue
		}
		w.stats.Saved++
		w.syncGraph(ctx, coffee)
	}

	return nil
}

// persistOne creates or updates a coffee matched by roaster + product name.
func (w *Writer) persistOne(ctx context.Context, coffee *beanatlas.Coffee) error {
	coffee.Status = beanatlas.StatusDone
	coffee.StatusMessage = ""

	existing, err := w.coffees.FindCoffeeByName(ctx, coffee.RoasterID, coffee.Name)
	if err != nil && beanatlas.ErrorCode(err) != beanatlas.ENOTFOUND {
		return err
	}

	if existing == nil {
		return w.coffees.CreateCoffee(ctx, coffee)
	}

	coffee.ID = existing.ID
	_, err = w.coffees.UpdateCoffee(ctx, existing.ID, beanatlas.CoffeeUpdate{
		Origin:        &coffee.Origin,
		Region:        &coffee.Region,
		Process:       &coffee.Process,
		Producer:      &coffee.Producer,
		Variety:       &coffee.Variety,
		Altitude:      &coffee.Altitude,
		TastingNotes:  &coffee.TastingNotes,
		Price:         &coffee.Price,
		InStock:       &coffee.InStock,
		Description:   &coffee.Description,
		SourceURL:     &coffee.SourceURL,
		ContentHash:   &coffee.ContentHash,
		Status:        &coffee.Status,
		StatusMessage: &coffee.StatusMessage,
	})
	return err
}

// persistPlaceholder creates or updates an error placeholder matched by
// roaster + source URL, so repeated failures of the same URL converge on a
// single row instead of accumulating one per attempt.
func (w *Writer) persistPlaceholder(ctx context.Context, coffee *beanatlas.Coffee) error {
	if coffee.SourceURL != "" {
		status := beanatlas.StatusError
		existing, err := w.coffees.FindCoffees(ctx, beanatlas.CoffeeFilter{
			RoasterID: &coffee.RoasterID,
			SourceURL: &coffee.SourceURL,
			Status:    &status,
		})
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			coffee.ID = existing[0].ID
			_, err := w.coffees.UpdateCoffee(ctx, existing[0].ID, beanatlas.CoffeeUpdate{
				Name:          &coffee.Name,
				Status:        &coffee.Status,
				StatusMessage: &coffee.StatusMessage,
			})
			return err
		}
	}
	return w.coffees.CreateCoffee(ctx, coffee)
}

// recordFailure persists a minimal error-status placeholder so the failure
// is visible and retry-able later. Best-effort.
func (w *Writer) recordFailure(ctx context.Context, coffee *beanatlas.Coffee, cause error) {
	placeholder := &beanatlas.Coffee{
		RoasterID:     coffee.RoasterID,
		Name:          coffee.Name,
		SourceURL:     coffee.SourceURL,
		Status:        beanatlas.StatusError,
		StatusMessage: beanatlas.ErrorMessage(cause),
	}
	if placeholder.StatusMessage == "" {
		placeholder.StatusMessage = cause.Error()
	}
	if err := w.persistPlaceholder(ctx, placeholder); err != nil {
		w.logger.Error("record failure placeholder",
			"roaster", coffee.RoasterID,
			"url", coffee.SourceURL,
			"err", err)
	}
}

// syncGraph pushes a persisted coffee to the knowledge graph. Fire and
// forget: failures are logged and ignored.
func (w *Writer) syncGraph(ctx context.Context, coffee *beanatlas.Coffee) {
	if w.graph == nil {
		return
	}
	syncCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := w.graph.SyncCoffee(syncCtx, coffee); err != nil {
		w.logger.Warn("graph sync", "coffee", coffee.Name, "err", err)
	}
}
