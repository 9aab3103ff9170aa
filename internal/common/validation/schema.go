// Package validation checks inbound notification payloads at the ingest
// edge before they are handed to the dispatch pipeline.
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const eventSchema = `{
  "type": "object",
  "required": ["record", "actorName"],
  "additionalProperties": false,
  "properties": {
    "id": {"type": "string"},
    "actorName": {"type": "string", "minLength": 1},
    "updateKind": {"type": "string", "enum": ["updated", "loan_status"]},
    "loanStatus": {"type": "string", "enum": ["approved", "processing", "hold", "rejected", "soon"]},
    "record": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "legalName": {"type": "string"},
        "tradeName": {"type": "string"},
        "registrationNumber": {"type": "string"},
        "constitutionType": {"type": "string"},
        "mobileNumber": {"type": "string"},
        "userEmail": {"type": "string"},
        "companyEmail": {"type": "string"},
        "staffEmails": {"type": "array", "items": {"type": "string"}},
        "assignedStaff": {"type": "array", "items": {"type": "string"}},
        "staffEmail": {"type": "string"},
        "createdBy": {"type": "string"},
        "status": {"type": "string"},
        "loanStatus": {"type": "string"}
      }
    }
  }
}`

var eventSchemaLoader = gojsonschema.NewStringLoader(eventSchema)

// ValidateEventPayload validates a raw NotificationEvent document against
// the ingest schema.
func ValidateEventPayload(payload []byte) error {
	result, err := gojsonschema.Validate(eventSchemaLoader, gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return fmt.Errorf("schema validation errored: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("invalid notification payload: %s", strings.Join(msgs, "; "))
}
