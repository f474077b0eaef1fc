package processes

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/flowbit/flowbit/internal/actions"
)

// Process runs one document through the full pipeline: classify, extract
// via the format agent, persist, route the follow-up action, and record the
// outcome. The record is written before routing so a routing failure still
// leaves a persisted trace.
func (r *repo) Process(ctx context.Context, cmd ProcessCommand) (*Record, error) {
	if strings.TrimSpace(string(cmd.Content)) == "" {
		return nil, ErrEmptyContent
	}
	if cmd.Source == "" {
		cmd.Source = "unknown"
	}

	classification := r.classifier.Classify(string(cmd.Content))
	result := r.agents.ForFormat(classification.Format).Process(cmd.Content)

	rec := &Record{
		ID:         uuid.New(),
		Source:     cmd.Source,
		Format:     classification.Format,
		Intent:     classification.Intent,
		Confidence: classification.Confidence,
		Content:    string(cmd.Content),
		Result:     &result,
		Status:     StatusPending,
	}

	stored, err := r.store.insert(ctx, rec)
	if err != nil {
		return nil, err
	}

	r.logger.Info("document classified",
		"id", stored.ID,
		"source", stored.Source,
		"format", stored.Format,
		"intent", stored.Intent,
		"confidence", stored.Confidence,
	)

	routing := r.router.Route(ctx, actions.Dispatch{
		ProcessID: stored.ID,
		Source:    stored.Source,
		Format:    stored.Format,
		Intent:    stored.Intent,
		Result:    &result,
	})

	status := StatusFailed
	var actionTaken *string
	if routing.Success {
		action := string(routing.NextAction)
		actionTaken = &action
		if result.Success {
			status = StatusDone
		}
	}

	return r.store.finalize(ctx, stored.ID, &routing, actionTaken, status)
}

// ProcessBatch runs each command through Process with bounded concurrency.
// Results preserve input order; one document's failure never aborts the
// rest.
func (r *repo) ProcessBatch(ctx context.Context, cmds []ProcessCommand) []BatchResult {
	results := make([]BatchResult, len(cmds))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, cmd := range cmds {
		g.Go(func() error {
			results[i] = BatchResult{Source: cmd.Source}

			rec, err := r.Process(ctx, cmd)
			if err != nil {
				results[i].Error = err.Error()
				return nil
			}

			results[i].Record = rec
			return nil
		})
	}

	g.Wait()
	return results
}
