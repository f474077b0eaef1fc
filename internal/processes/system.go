package processes

import (
	"context"

	"github.com/google/uuid"

	"github.com/flowbit/flowbit/pkg/pagination"
)

// System defines the public contract for process domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Record], error)

	Find(ctx context.Context, id uuid.UUID) (*Record, error)
	Process(ctx context.Context, cmd ProcessCommand) (*Record, error)
	ProcessBatch(ctx context.Context, cmds []ProcessCommand) []BatchResult
	Delete(ctx context.Context, id uuid.UUID) error
}
