// Package actions routes processed documents to the downstream executor
// service. The action set is closed: a dispatch carrying anything outside it
// fails before any network call is made.
package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/flowbit/flowbit/internal/agents"
	"github.com/flowbit/flowbit/internal/classify"
)

// Dispatch carries everything the router needs to execute a follow-up
// action for one processed document.
type Dispatch struct {
	ProcessID uuid.UUID
	Source    string
	Format    classify.Format
	Intent    classify.Intent
	Result    *agents.Result
}

// Router executes the action named by an agent result against the
// downstream service.
type Router struct {
	client *Client
	logger *slog.Logger
}

// NewRouter creates a Router using the given client.
func NewRouter(client *Client, logger *slog.Logger) *Router {
	return &Router{
		client: client,
		logger: logger.With("system", "actions"),
	}
}

// Route validates the dispatch and executes its action, returning a result
// envelope describing the outcome. Precondition failures (missing result,
// missing action, unknown action) fail without contacting the executor.
func (r *Router) Route(ctx context.Context, d Dispatch) agents.Result {
	if d.Result == nil {
		return agents.Result{
			Success: false,
			Message: "no agent result to route",
			Error:   ErrNoResult.Error(),
		}
	}

	action := d.Result.NextAction
	if action == "" {
		return agents.Result{
			Success: false,
			Message: "no next action specified",
			Error:   ErrNoAction.Error(),
		}
	}
	if !action.Known() {
		return agents.Result{
			Success: false,
			Message: fmt.Sprintf("unknown action: %s", action),
			Error:   ErrUnknownAction.Error(),
		}
	}

	data, err := r.execute(ctx, action, d)
	if err != nil {
		r.logger.Error("action execution failed",
			"action", action,
			"process_id", d.ProcessID,
			"error", err,
		)
		return agents.Result{
			Success:    false,
			Message:    fmt.Sprintf("failed to execute %s", action),
			Error:      err.Error(),
			NextAction: action,
		}
	}

	r.logger.Info("action executed",
		"action", action,
		"process_id", d.ProcessID,
	)
	return agents.Result{
		Success:    true,
		Message:    fmt.Sprintf("successfully executed %s", action),
		Data:       data,
		NextAction: action,
	}
}

func (r *Router) execute(ctx context.Context, action agents.Action, d Dispatch) (map[string]any, error) {
	switch action {
	case agents.ActionCreateTicket:
		return r.createTicket(ctx, d)
	case agents.ActionEscalateIssue:
		return r.escalateIssue(ctx, d)
	case agents.ActionFlagCompliance:
		return r.flagCompliance(ctx, d)
	case agents.ActionLogAlert:
		return r.logAlert(ctx, d)
	default:
		return r.generateSummary(ctx, d)
	}
}

func (r *Router) createTicket(ctx context.Context, d Dispatch) (map[string]any, error) {
	priority := "medium"
	if d.Format == classify.FormatEmail {
		priority = "high"
	}

	return r.client.Post(ctx, "/api/tickets", map[string]any{
		"title":       fmt.Sprintf("New %s from %s", d.Intent, d.Source),
		"description": describe(d),
		"priority":    priority,
	})
}

func (r *Router) escalateIssue(ctx context.Context, d Dispatch) (map[string]any, error) {
	return r.client.Post(ctx, "/api/escalations", map[string]any{
		"issue_id": d.ProcessID.String(),
		"reason":   "High priority or compliance risk detected",
		"source":   d.Source,
	})
}

func (r *Router) flagCompliance(ctx context.Context, d Dispatch) (map[string]any, error) {
	return r.client.Post(ctx, "/api/compliance/flags", map[string]any{
		"document_id": d.ProcessID.String(),
		"flags":       dispatchFlags(d.Result),
		"source":      d.Source,
	})
}

func (r *Router) logAlert(ctx context.Context, d Dispatch) (map[string]any, error) {
	return r.client.Post(ctx, "/api/alerts", map[string]any{
		"alert_id": d.ProcessID.String(),
		"message":  fmt.Sprintf("Alert from %s", d.Source),
		"severity": "high",
		"details":  describe(d),
	})
}

func (r *Router) generateSummary(ctx context.Context, d Dispatch) (map[string]any, error) {
	return r.client.Post(ctx, "/api/summaries", map[string]any{
		"document_id": d.ProcessID.String(),
		"content":     describe(d),
		"format":      string(d.Format),
	})
}

// dispatchFlags extracts the flag list from the agent result: PDF agents
// report compliance_flags, JSON agents report anomalies.
func dispatchFlags(result *agents.Result) []string {
	for _, key := range []string{"compliance_flags", "anomalies"} {
		switch flags := result.Data[key].(type) {
		case []string:
			return flags
		case []any:
			out := make([]string, 0, len(flags))
			for _, f := range flags {
				out = append(out, fmt.Sprint(f))
			}
			return out
		}
	}
	return []string{}
}

// describe renders the extracted agent data as a compact JSON document for
// ticket descriptions, alert details, and summary content.
func describe(d Dispatch) string {
	doc := map[string]any{
		"source": d.Source,
		"format": d.Format,
		"intent": d.Intent,
		"data":   d.Result.Data,
	}

	encoded, err := json.Marshal(doc)
	if err != nil {
		return fmt.Sprintf("source=%s format=%s intent=%s", d.Source, d.Format, d.Intent)
	}
	return string(encoded)
}
