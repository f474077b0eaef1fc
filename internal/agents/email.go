package agents

import (
	"strings"

	"github.com/flowbit/flowbit/internal/scoring"
)

// Tone categorizes the register of an email.
type Tone string

const (
	TonePolite      Tone = "polite"
	ToneEscalation  Tone = "escalation"
	ToneThreatening Tone = "threatening"
	ToneNeutral     Tone = "neutral"
	ToneFormal      Tone = "formal"
	ToneInformal    Tone = "informal"
	ToneComplaint   Tone = "complaint"
)

// Urgency categorizes how quickly an email demands attention.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// Polite/Formal and Neutral/Informal share keywords; a tie resolves to
// whichever is declared first.
var toneKeywords = scoring.Table[Tone]{
	{Category: TonePolite, Keywords: []string{"dear", "sincerely", "regards", "respectfully", "please", "thank you"}},
	{Category: ToneEscalation, Keywords: []string{"urgent", "immediately", "asap", "critical"}},
	{Category: ToneThreatening, Keywords: []string{"legal", "sue", "action", "court", "lawyer"}},
	{Category: ToneNeutral, Keywords: []string{"hi", "hello", "hey", "thanks", "cheers"}},
	{Category: ToneFormal, Keywords: []string{"dear", "sincerely", "regards", "respectfully"}},
	{Category: ToneInformal, Keywords: []string{"hi", "hello", "hey", "thanks", "cheers"}},
	{Category: ToneComplaint, Keywords: []string{"unhappy", "dissatisfied", "poor", "bad", "wrong"}},
}

// High precedes Critical so that content matching both keyword sets equally
// resolves to High; content with no urgency signal resolves to Low.
var urgencyKeywords = scoring.Table[Urgency]{
	{Category: UrgencyLow, Keywords: []string{"when convenient", "at your leisure", "no rush"}},
	{Category: UrgencyMedium, Keywords: []string{"soon", "shortly", "prompt", "timely"}},
	{Category: UrgencyHigh, Keywords: []string{"urgent", "immediately", "asap", "critical", "emergency"}},
	{Category: UrgencyCritical, Keywords: []string{"critical", "emergency", "immediate", "urgent"}},
}

// EmailAgent extracts header fields, tone, and urgency from raw email text.
type EmailAgent struct {
	tones     scoring.Table[Tone]
	urgencies scoring.Table[Urgency]
}

// NewEmailAgent creates an EmailAgent with the default tone and urgency tables.
func NewEmailAgent() *EmailAgent {
	return &EmailAgent{
		tones:     toneKeywords,
		urgencies: urgencyKeywords,
	}
}

// Process parses the email, analyzes tone and urgency, and selects the
// follow-up action from those signals. Content with no signal at all still
// succeeds, landing on the polite/low fallbacks.
func (a *EmailAgent) Process(content []byte) Result {
	text := string(content)
	fields := extractFields(text)
	tone := a.tones.ArgMax(text)
	urgency := a.urgencies.ArgMax(text)

	return Result{
		Success: true,
		Message: "email processed successfully",
		Data: map[string]any{
			"fields":  fields,
			"tone":    string(tone),
			"urgency": string(urgency),
		},
		NextAction: emailAction(tone, urgency),
	}
}

// extractFields pulls known header lines and the body. Header prefixes are
// case-sensitive; unrecognized lines before the first blank line are dropped.
// The body is everything after the first blank line.
func extractFields(content string) map[string]string {
	fields := map[string]string{}
	lines := strings.Split(content, "\n")

	for _, line := range lines {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Subject:"):
			fields["subject"] = strings.TrimSpace(line[len("Subject:"):])
		case strings.HasPrefix(line, "From:"):
			fields["from"] = strings.TrimSpace(line[len("From:"):])
		case strings.HasPrefix(line, "To:"):
			fields["to"] = strings.TrimSpace(line[len("To:"):])
		case strings.HasPrefix(line, "Date:"):
			fields["date"] = strings.TrimSpace(line[len("Date:"):])
		}
	}

	bodyStart := 0
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			bodyStart = i + 1
			break
		}
	}
	fields["body"] = strings.TrimSpace(strings.Join(lines[bodyStart:], "\n"))

	return fields
}

// emailAction maps tone and urgency onto a concrete action: escalation
// signals escalate, complaints open tickets, everything else gets summarized.
func emailAction(tone Tone, urgency Urgency) Action {
	switch {
	case urgency == UrgencyHigh || urgency == UrgencyCritical:
		return ActionEscalateIssue
	case tone == ToneThreatening || tone == ToneEscalation:
		return ActionEscalateIssue
	case tone == ToneComplaint:
		return ActionCreateTicket
	default:
		return ActionGenerateSummary
	}
}
