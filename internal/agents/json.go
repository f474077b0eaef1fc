package agents

import (
	"encoding/json"
	"fmt"
	"time"
)

// fieldKind is the type a schema field must satisfy.
type fieldKind int

const (
	kindString fieldKind = iota
	kindNumber
	kindObject
	kindArray
)

type fieldSpec struct {
	name string
	kind fieldKind
	// itemFields, when set, validates each element of an array field as an
	// object with these required fields.
	itemFields []fieldSpec
}

type jsonSchema struct {
	name   string
	fields []fieldSpec
}

// Schemas are tried in declaration order; the first full match wins.
// Format annotations (date-time, date) are deliberately not enforced here:
// a syntactically valid string passes, and malformed dates surface later in
// the anomaly check.
var jsonSchemas = []jsonSchema{
	{
		name: "webhook",
		fields: []fieldSpec{
			{name: "event", kind: kindString},
			{name: "timestamp", kind: kindString},
			{name: "data", kind: kindObject},
		},
	},
	{
		name: "invoice",
		fields: []fieldSpec{
			{name: "invoice_number", kind: kindString},
			{name: "amount", kind: kindNumber},
			{name: "currency", kind: kindString},
			{name: "items", kind: kindArray, itemFields: []fieldSpec{
				{name: "description", kind: kindString},
				{name: "quantity", kind: kindNumber},
				{name: "price", kind: kindNumber},
			}},
		},
	},
	{
		name: "rfq",
		fields: []fieldSpec{
			{name: "request_id", kind: kindString},
			{name: "items", kind: kindArray, itemFields: []fieldSpec{
				{name: "product_id", kind: kindString},
				{name: "quantity", kind: kindNumber},
			}},
			{name: "delivery_date", kind: kindString},
		},
	},
}

const (
	highValueThreshold       = 10000
	unusualQuantityThreshold = 1000
	urgentDeliveryWindow     = 7 * 24 * time.Hour
)

// JSONAgent validates structured payloads against known schemas and applies
// business-rule anomaly checks.
type JSONAgent struct {
	schemas []jsonSchema
}

// NewJSONAgent creates a JSONAgent with the default schema set.
func NewJSONAgent() *JSONAgent {
	return &JSONAgent{schemas: jsonSchemas}
}

// Process parses, validates, and screens the payload, producing the next
// action: log_alert when nothing validates, flag_compliance when anomalies
// were found, create_ticket for a clean record.
func (a *JSONAgent) Process(content []byte) Result {
	var payload map[string]any
	if err := json.Unmarshal(content, &payload); err != nil {
		return Result{
			Success:    false,
			Message:    "invalid JSON format",
			Error:      err.Error(),
			NextAction: ActionLogAlert,
		}
	}

	schema, ok := a.detectSchema(payload)
	if !ok {
		return Result{
			Success: false,
			Message: "invalid JSON data",
			Data: map[string]any{
				"is_valid":  false,
				"anomalies": []string{"no matching schema found"},
			},
			NextAction: ActionLogAlert,
		}
	}

	anomalies, err := a.checkAnomalies(payload, schema)
	if err != nil {
		return Result{
			Success:    false,
			Message:    "failed to process JSON",
			Error:      err.Error(),
			NextAction: ActionLogAlert,
		}
	}

	next := ActionCreateTicket
	if len(anomalies) > 0 {
		next = ActionFlagCompliance
	}

	return Result{
		Success: true,
		Message: fmt.Sprintf("successfully processed JSON with schema %s", schema),
		Data: map[string]any{
			"schema":    schema,
			"is_valid":  true,
			"anomalies": anomalies,
			"payload":   payload,
		},
		NextAction: next,
	}
}

// detectSchema returns the name of the first schema whose required fields
// are all present and type-correct.
func (a *JSONAgent) detectSchema(payload map[string]any) (string, bool) {
	for _, schema := range a.schemas {
		if matchesSchema(payload, schema.fields) {
			return schema.name, true
		}
	}
	return "", false
}

func matchesSchema(obj map[string]any, fields []fieldSpec) bool {
	for _, field := range fields {
		value, ok := obj[field.name]
		if !ok || !matchesKind(value, field) {
			return false
		}
	}
	return true
}

func matchesKind(value any, field fieldSpec) bool {
	switch field.kind {
	case kindString:
		_, ok := value.(string)
		return ok
	case kindNumber:
		_, ok := value.(float64)
		return ok
	case kindObject:
		_, ok := value.(map[string]any)
		return ok
	case kindArray:
		items, ok := value.([]any)
		if !ok {
			return false
		}
		for _, item := range items {
			obj, ok := item.(map[string]any)
			if !ok || !matchesSchema(obj, field.itemFields) {
				return false
			}
		}
		return true
	}
	return false
}

// checkAnomalies applies the business rules for the matched schema. A
// malformed rfq delivery date is an explicit failure, not a silent skip.
func (a *JSONAgent) checkAnomalies(payload map[string]any, schema string) ([]string, error) {
	anomalies := []string{}

	switch schema {
	case "invoice":
		if amount, ok := payload["amount"].(float64); ok && amount > highValueThreshold {
			anomalies = append(anomalies, "High-value invoice detected (>$10,000)")
		}

		items, _ := payload["items"].([]any)
		for _, item := range items {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if quantity, ok := obj["quantity"].(float64); ok && quantity > unusualQuantityThreshold {
				anomalies = append(anomalies,
					fmt.Sprintf("Unusual quantity detected for item: %v", obj["description"]))
			}
		}

	case "rfq":
		raw, _ := payload["delivery_date"].(string)
		delivery, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, fmt.Errorf("parse delivery_date: %w", err)
		}
		if time.Until(delivery) < urgentDeliveryWindow {
			anomalies = append(anomalies, "Urgent delivery request detected (<7 days)")
		}
	}

	return anomalies, nil
}
