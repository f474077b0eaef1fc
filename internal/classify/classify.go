// Package classify determines the format and business intent of incoming
// content using keyword scoring. Classification always produces a best-effort
// answer: content with no recognizable keywords degrades to a uniform
// distribution rather than an error.
package classify

import "github.com/flowbit/flowbit/internal/scoring"

// Format is the structural type of an input document.
type Format string

const (
	FormatEmail Format = "email"
	FormatJSON  Format = "json"
	FormatPDF   Format = "pdf"
)

// Intent is the declared business purpose of an input.
type Intent string

const (
	IntentInvoice    Intent = "invoice"
	IntentRFQ        Intent = "rfq"
	IntentComplaint  Intent = "complaint"
	IntentRegulation Intent = "regulation"
	IntentFraudRisk  Intent = "fraud_risk"
)

// Result carries a classification outcome. Confidence is the mean of the
// winning format and intent scores.
type Result struct {
	Format     Format  `json:"format"`
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// Classifier scores content against format and intent keyword tables. The
// two problems are independent: a JSON-looking document can carry any intent.
type Classifier struct {
	formats scoring.Table[Format]
	intents scoring.Table[Intent]
}

// New creates a Classifier with the default keyword tables.
func New() *Classifier {
	return &Classifier{
		formats: formatKeywords,
		intents: intentKeywords,
	}
}

// Classify returns the winning format, intent, and combined confidence for
// the given content. It never fails.
func (c *Classifier) Classify(content string) Result {
	format, formatScore := c.formats.Score(content).Best()
	intent, intentScore := c.intents.Score(content).Best()

	return Result{
		Format:     format,
		Intent:     intent,
		Confidence: (formatScore + intentScore) / 2,
	}
}
