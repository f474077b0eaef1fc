// Package agents implements the format-specific extraction agents. Every
// agent consumes raw content and produces a uniform Result envelope with a
// concrete follow-up action; agents never surface internal failures as
// errors to the caller.
package agents

import (
	"log/slog"

	"github.com/flowbit/flowbit/internal/classify"
)

// Action names an external side effect the router can perform. The set is
// closed: the router rejects anything else before making a call.
type Action string

const (
	ActionCreateTicket    Action = "create_ticket"
	ActionEscalateIssue   Action = "escalate_issue"
	ActionFlagCompliance  Action = "flag_compliance"
	ActionLogAlert        Action = "log_alert"
	ActionGenerateSummary Action = "generate_summary"
)

// Known reports whether a is one of the five routable actions.
func (a Action) Known() bool {
	switch a {
	case ActionCreateTicket, ActionEscalateIssue, ActionFlagCompliance,
		ActionLogAlert, ActionGenerateSummary:
		return true
	}
	return false
}

// Result is the envelope every agent produces. Success implies Data is
// populated; failure implies Error is populated. NextAction may be set even
// on failure (a parse failure still routes to log_alert).
type Result struct {
	Success    bool           `json:"success"`
	Message    string         `json:"message"`
	Data       map[string]any `json:"data,omitempty"`
	Error      string         `json:"error,omitempty"`
	NextAction Action         `json:"next_action,omitempty"`
}

// Agent extracts structured data from one input format.
type Agent interface {
	Process(content []byte) Result
}

// Set holds one agent per input format, constructed once at startup.
type Set struct {
	Email *EmailAgent
	JSON  *JSONAgent
	PDF   *PDFAgent
}

// NewSet creates the agent set with default keyword tables.
func NewSet(logger *slog.Logger) *Set {
	return &Set{
		Email: NewEmailAgent(),
		JSON:  NewJSONAgent(),
		PDF:   NewPDFAgent(logger),
	}
}

// ForFormat selects the agent responsible for the given format.
func (s *Set) ForFormat(format classify.Format) Agent {
	switch format {
	case classify.FormatEmail:
		return s.Email
	case classify.FormatJSON:
		return s.JSON
	default:
		return s.PDF
	}
}
