// Package processes implements the document processing domain: intake,
// classification, agent extraction, action routing, and the persisted
// record of every run.
package processes

import (
	"time"

	"github.com/google/uuid"

	"github.com/flowbit/flowbit/internal/agents"
	"github.com/flowbit/flowbit/internal/classify"
)

// Record statuses. A record is pending between the agent stage and action
// routing; done requires both the agent and the routed action to succeed.
const (
	StatusPending = "pending"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// Record is the persisted outcome of processing one document.
type Record struct {
	ID          uuid.UUID       `json:"id"`
	Source      string          `json:"source"`
	Format      classify.Format `json:"format"`
	Intent      classify.Intent `json:"intent"`
	Confidence  float64         `json:"confidence"`
	Content     string          `json:"content"`
	Result      *agents.Result  `json:"result,omitempty"`
	Routing     *agents.Result  `json:"routing,omitempty"`
	ActionTaken *string         `json:"action_taken"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProcessCommand carries one document into the pipeline. Content holds the
// raw bytes regardless of format.
type ProcessCommand struct {
	Source  string
	Content []byte
}

// BatchResult reports the outcome of a single document within a batch.
// On success, Record is populated and Error is empty.
type BatchResult struct {
	Record *Record `json:"record,omitempty"`
	Source string  `json:"source"`
	Error  string  `json:"error,omitempty"`
}
