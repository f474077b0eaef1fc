package processes

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/flowbit/flowbit/pkg/cache"
	"github.com/flowbit/flowbit/pkg/pagination"
)

// cached decorates a System with read-through caching of single-record
// lookups. Writes go straight to the inner system; mutations invalidate.
type cached struct {
	inner      System
	cache      cache.System
	logger     *slog.Logger
	pagination pagination.Config
}

// WithCache wraps sys with read-through caching backed by store.
func WithCache(
	sys System,
	store cache.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &cached{
		inner:      sys,
		cache:      store,
		logger:     logger.With("system", "processes-cache"),
		pagination: pagination,
	}
}

func cacheKey(id uuid.UUID) string {
	return "process:" + id.String()
}

func (c *cached) Handler(maxUploadSize int64) *Handler {
	return NewHandler(c, c.logger, c.pagination, maxUploadSize)
}

func (c *cached) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Record], error) {
	return c.inner.List(ctx, page, filters)
}

func (c *cached) Find(ctx context.Context, id uuid.UUID) (*Record, error) {
	var rec Record
	err := c.cache.Get(ctx, cacheKey(id), &rec)
	if err == nil {
		return &rec, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		c.logger.Warn("cache read failed", "id", id, "error", err)
	}

	found, err := c.inner.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, cacheKey(id), found); err != nil {
		c.logger.Warn("cache write failed", "id", id, "error", err)
	}

	return found, nil
}

func (c *cached) Process(ctx context.Context, cmd ProcessCommand) (*Record, error) {
	rec, err := c.inner.Process(ctx, cmd)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, cacheKey(rec.ID), rec); err != nil {
		c.logger.Warn("cache write failed", "id", rec.ID, "error", err)
	}

	return rec, nil
}

func (c *cached) ProcessBatch(ctx context.Context, cmds []ProcessCommand) []BatchResult {
	results := c.inner.ProcessBatch(ctx, cmds)

	for _, br := range results {
		if br.Record == nil {
			continue
		}
		if err := c.cache.Set(ctx, cacheKey(br.Record.ID), br.Record); err != nil {
			c.logger.Warn("cache write failed", "id", br.Record.ID, "error", err)
		}
	}

	return results
}

func (c *cached) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}

	if err := c.cache.Delete(ctx, cacheKey(id)); err != nil {
		c.logger.Warn("cache invalidation failed", "id", id, "error", err)
	}

	return nil
}
