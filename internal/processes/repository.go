package processes

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/flowbit/flowbit/internal/actions"
	"github.com/flowbit/flowbit/internal/agents"
	"github.com/flowbit/flowbit/internal/classify"
	"github.com/flowbit/flowbit/pkg/pagination"
	"github.com/flowbit/flowbit/pkg/query"
	"github.com/flowbit/flowbit/pkg/repository"
)

const recordColumns = "id, source, format, intent, confidence, content, result, routing, action_taken, status, created_at, updated_at"

// store is the persistence seam the pipeline writes through: one insert
// before action routing, one finalize after.
type store interface {
	insert(ctx context.Context, rec *Record) (*Record, error)
	finalize(
		ctx context.Context,
		id uuid.UUID,
		routing *agents.Result,
		actionTaken *string,
		status string,
	) (*Record, error)
}

type repo struct {
	db         *sql.DB
	classifier *classify.Classifier
	agents     *agents.Set
	router     *actions.Router
	logger     *slog.Logger
	pagination pagination.Config
	workers    int
	store      store
}

// New creates a process repository implementing the System interface.
// workers bounds batch concurrency; values below 1 default to 4.
func New(
	db *sql.DB,
	classifier *classify.Classifier,
	set *agents.Set,
	router *actions.Router,
	logger *slog.Logger,
	pagination pagination.Config,
	workers int,
) System {
	if workers < 1 {
		workers = 4
	}

	r := &repo{
		db:         db,
		classifier: classifier,
		agents:     set,
		router:     router,
		logger:     logger.With("system", "processes"),
		pagination: pagination,
		workers:    workers,
	}
	r.store = r
	return r
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Record], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Source", "Content")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count processes: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	records, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("query processes: %w", err)
	}

	result := pagination.NewPageResult(records, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Record, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	rec, err := repository.QueryOne(ctx, r.db, q, args, scanRecord)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &rec, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM processes WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("process deleted", "id", id)
	return nil
}

// insert persists the record after the agent stage, before action routing.
func (r *repo) insert(ctx context.Context, rec *Record) (*Record, error) {
	encoded, err := encodeResult(rec.Result)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}

	q := fmt.Sprintf(`
		INSERT INTO processes(id, source, format, intent, confidence, content, result, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s`, recordColumns)

	insertArgs := []any{
		rec.ID,
		rec.Source,
		rec.Format,
		rec.Intent,
		rec.Confidence,
		rec.Content,
		encoded,
		rec.Status,
	}

	stored, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Record, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanRecord)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &stored, nil
}

// finalize records the routing outcome and moves the record to its terminal
// status in a single update.
func (r *repo) finalize(
	ctx context.Context,
	id uuid.UUID,
	routing *agents.Result,
	actionTaken *string,
	status string,
) (*Record, error) {
	encoded, err := encodeResult(routing)
	if err != nil {
		return nil, fmt.Errorf("encode routing: %w", err)
	}

	q := fmt.Sprintf(`
		UPDATE processes
		SET routing = $2, action_taken = $3, status = $4, updated_at = now()
		WHERE id = $1
		RETURNING %s`, recordColumns)

	updateArgs := []any{id, encoded, actionTaken, status}

	stored, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Record, error) {
		return repository.QueryOne(ctx, tx, q, updateArgs, scanRecord)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &stored, nil
}
