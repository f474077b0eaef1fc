package agents_test

import (
	"log/slog"
	"os"
	"reflect"
	"testing"

	"github.com/flowbit/flowbit/internal/agents"
)

func newPDFAgent() *agents.PDFAgent {
	return agents.NewPDFAgent(slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

func TestPDFPlainTextPassthrough(t *testing.T) {
	content := "Invoice #123\nTotal amount due: $500\nPayment terms: net 30"

	result := newPDFAgent().Process([]byte(content))

	if !result.Success {
		t.Fatalf("Process failed: %s", result.Error)
	}
	if got := result.Data["text"]; got != content {
		t.Errorf("text = %q, want raw content back", got)
	}
	if _, ok := result.Data["page_count"]; ok {
		t.Error("page_count should be absent for non-PDF content")
	}
	if got := result.Data["document_type"]; got != "invoice" {
		t.Errorf("document_type = %v, want invoice", got)
	}
}

func TestPDFInvoiceCreatesTicket(t *testing.T) {
	content := "Invoice for payment. Total amount: $200. Due date: 2025-04-01."

	result := newPDFAgent().Process([]byte(content))

	if flags := result.Data["compliance_flags"].([]string); len(flags) != 0 {
		t.Fatalf("compliance_flags = %v, want none", flags)
	}
	if result.NextAction != agents.ActionCreateTicket {
		t.Errorf("NextAction = %s, want create_ticket", result.NextAction)
	}
}

func TestPDFComplianceFlags(t *testing.T) {
	// Flags come back in scan order regardless of where the keywords sit in
	// the document.
	content := "This policy describes our GDPR obligations. Compliance is mandatory under the law."

	result := newPDFAgent().Process([]byte(content))

	want := []string{"gdpr", "compliance", "policy", "mandatory", "obligation", "law"}
	flags := result.Data["compliance_flags"].([]string)
	if !reflect.DeepEqual(flags, want) {
		t.Errorf("compliance_flags = %v, want %v", flags, want)
	}
	if result.NextAction != agents.ActionFlagCompliance {
		t.Errorf("NextAction = %s, want flag_compliance", result.NextAction)
	}
}

func TestPDFComplianceOverridesDocumentType(t *testing.T) {
	content := "Invoice total amount due. Subject to GDPR regulation."

	result := newPDFAgent().Process([]byte(content))

	if got := result.Data["document_type"]; got != "invoice" {
		t.Errorf("document_type = %v, want invoice", got)
	}
	if result.NextAction != agents.ActionFlagCompliance {
		t.Errorf("NextAction = %s, want flag_compliance", result.NextAction)
	}
}

func TestPDFRoutineDocumentSummarized(t *testing.T) {
	content := "Quarterly report with analysis and findings. Conclusion: on track."

	result := newPDFAgent().Process([]byte(content))

	if got := result.Data["document_type"]; got != "report" {
		t.Errorf("document_type = %v, want report", got)
	}
	if result.NextAction != agents.ActionGenerateSummary {
		t.Errorf("NextAction = %s, want generate_summary", result.NextAction)
	}
}

func TestPDFCorruptFallsBackToRaw(t *testing.T) {
	// Starts with the PDF magic header but is not parseable; extraction
	// falls back to the raw bytes.
	content := "%PDF-1.7 garbage invoice payment amount"

	result := newPDFAgent().Process([]byte(content))

	if !result.Success {
		t.Fatalf("Process failed: %s", result.Error)
	}
	if got := result.Data["text"]; got != content {
		t.Errorf("text = %q, want raw content back", got)
	}
	if got := result.Data["document_type"]; got != "invoice" {
		t.Errorf("document_type = %v, want invoice", got)
	}
}
