package processes

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/flowbit/flowbit/internal/agents"
	"github.com/flowbit/flowbit/pkg/query"
	"github.com/flowbit/flowbit/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "processes", "p").
	Project("id", "ID").
	Project("source", "Source").
	Project("format", "Format").
	Project("intent", "Intent").
	Project("confidence", "Confidence").
	Project("content", "Content").
	Project("result", "Result").
	Project("routing", "Routing").
	Project("action_taken", "ActionTaken").
	Project("status", "Status").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for process queries.
// Nil fields are ignored; all fields use exact matching.
type Filters struct {
	Status      *string `json:"status,omitempty"`
	Source      *string `json:"source,omitempty"`
	Format      *string `json:"format,omitempty"`
	Intent      *string `json:"intent,omitempty"`
	ActionTaken *string `json:"action_taken,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("Source", f.Source).
		WhereEquals("Format", f.Format).
		WhereEquals("Intent", f.Intent).
		WhereEquals("ActionTaken", f.ActionTaken)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if s := values.Get("source"); s != "" {
		f.Source = &s
	}

	if fo := values.Get("format"); fo != "" {
		f.Format = &fo
	}

	if i := values.Get("intent"); i != "" {
		f.Intent = &i
	}

	if a := values.Get("action_taken"); a != "" {
		f.ActionTaken = &a
	}

	return f
}

func scanRecord(s repository.Scanner) (Record, error) {
	var (
		rec        Record
		resultRaw  []byte
		routingRaw []byte
		action     sql.NullString
	)

	err := s.Scan(
		&rec.ID,
		&rec.Source,
		&rec.Format,
		&rec.Intent,
		&rec.Confidence,
		&rec.Content,
		&resultRaw,
		&routingRaw,
		&action,
		&rec.Status,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return rec, err
	}

	if rec.Result, err = decodeResult(resultRaw); err != nil {
		return rec, fmt.Errorf("decode result: %w", err)
	}
	if rec.Routing, err = decodeResult(routingRaw); err != nil {
		return rec, fmt.Errorf("decode routing: %w", err)
	}
	if action.Valid {
		rec.ActionTaken = &action.String
	}

	return rec, nil
}

func decodeResult(raw []byte) (*agents.Result, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var result agents.Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// encodeResult marshals an agent result for a jsonb column; nil becomes NULL.
func encodeResult(result *agents.Result) (any, error) {
	if result == nil {
		return nil, nil
	}
	return json.Marshal(result)
}
