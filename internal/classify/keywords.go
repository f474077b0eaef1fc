package classify

import "github.com/flowbit/flowbit/internal/scoring"

// Keyword tables are fixed at startup and never derived from data.
// Declaration order matters: ties resolve to the earlier entry.

var formatKeywords = scoring.Table[Format]{
	{Category: FormatEmail, Keywords: []string{"subject:", "from:", "to:", "date:", "dear", "regards"}},
	{Category: FormatJSON, Keywords: []string{"{", "}", `"`, ":", "[", "]"}},
	{Category: FormatPDF, Keywords: []string{"pdf", "document", "page", "section"}},
}

var intentKeywords = scoring.Table[Intent]{
	{Category: IntentInvoice, Keywords: []string{"invoice", "payment", "amount", "total", "due date"}},
	{Category: IntentRFQ, Keywords: []string{"quote", "quotation", "request", "price", "specification"}},
	{Category: IntentComplaint, Keywords: []string{"complaint", "issue", "problem", "error", "wrong"}},
	{Category: IntentRegulation, Keywords: []string{"regulation", "compliance", "policy", "law", "standard"}},
	{Category: IntentFraudRisk, Keywords: []string{"fraud", "suspicious", "unauthorized", "chargeback", "discrepancy"}},
}
