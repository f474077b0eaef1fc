package agents_test

import (
	"testing"

	"github.com/flowbit/flowbit/internal/agents"
)

func TestEmailFieldExtraction(t *testing.T) {
	content := "Subject: Quarterly review\nFrom: alice@example.com\nTo: bob@example.com\nDate: 2025-03-01\nX-Custom: dropped\n\nHello Bob,\n\nSee attached.\n"

	result := agents.NewEmailAgent().Process([]byte(content))

	if !result.Success {
		t.Fatalf("Process failed: %s", result.Error)
	}

	fields, ok := result.Data["fields"].(map[string]string)
	if !ok {
		t.Fatalf("fields missing from data: %v", result.Data)
	}

	want := map[string]string{
		"subject": "Quarterly review",
		"from":    "alice@example.com",
		"to":      "bob@example.com",
		"date":    "2025-03-01",
		"body":    "Hello Bob,\n\nSee attached.",
	}
	for key, value := range want {
		if fields[key] != value {
			t.Errorf("fields[%q] = %q, want %q", key, fields[key], value)
		}
	}

	if _, ok := fields["x-custom"]; ok {
		t.Error("unrecognized header should be dropped, not extracted")
	}
}

func TestEmailUrgentEscalates(t *testing.T) {
	content := "Subject: Server down\n\nThis is urgent, please respond immediately."

	result := agents.NewEmailAgent().Process([]byte(content))

	if !result.Success {
		t.Fatalf("Process failed: %s", result.Error)
	}

	urgency := result.Data["urgency"]
	if urgency != "high" && urgency != "critical" {
		t.Errorf("urgency = %v, want high or critical", urgency)
	}
	if result.NextAction != agents.ActionEscalateIssue {
		t.Errorf("NextAction = %s, want escalate_issue", result.NextAction)
	}
}

func TestEmailToneTieBreak(t *testing.T) {
	// "dear" and "regards" hit both polite and formal; polite is declared
	// first and wins
	content := "Subject: Hello\n\nDear team,\n\nRegards,\nC"

	result := agents.NewEmailAgent().Process([]byte(content))

	if got := result.Data["tone"]; got != "polite" {
		t.Errorf("tone = %v, want polite", got)
	}
}

func TestEmailActions(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    agents.Action
	}{
		{
			"threatening escalates",
			"Subject: Notice\n\nOur lawyer will take legal action in court.",
			agents.ActionEscalateIssue,
		},
		{
			"complaint opens a ticket",
			"Subject: Feedback\n\nWe are unhappy and dissatisfied with the poor service.",
			agents.ActionCreateTicket,
		},
		{
			"routine email gets summarized",
			"Subject: Minutes\n\nHello, notes from today attached. Thanks!",
			agents.ActionGenerateSummary,
		},
	}

	agent := agents.NewEmailAgent()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := agent.Process([]byte(tt.content))
			if !result.Success {
				t.Fatalf("Process failed: %s", result.Error)
			}
			if result.NextAction != tt.want {
				t.Errorf("NextAction = %s, want %s (tone=%v urgency=%v)",
					result.NextAction, tt.want, result.Data["tone"], result.Data["urgency"])
			}
		})
	}
}

func TestEmailEmptyContent(t *testing.T) {
	result := agents.NewEmailAgent().Process([]byte("   \n  "))

	if !result.Success {
		t.Fatalf("Process failed: %s", result.Error)
	}
	if result.Data["tone"] != "polite" {
		t.Errorf("tone = %v, want polite", result.Data["tone"])
	}
	if result.Data["urgency"] != "low" {
		t.Errorf("urgency = %v, want low", result.Data["urgency"])
	}
	if result.NextAction != agents.ActionGenerateSummary {
		t.Errorf("NextAction = %s, want %s", result.NextAction, agents.ActionGenerateSummary)
	}
}
