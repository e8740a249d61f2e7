// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// notificationConfigSchema describes the JSON blobs stored in the
// notification_configs table (channels map and rules list). Rows are
// validated on read so a hand-edited or migrated blob cannot crash the
// dispatch path.
const notificationConfigSchema = `{
	"type": "object",
	"properties": {
		"channels": {
			"type": "object",
			"additionalProperties": {
				"type": "object",
				"properties": {
					"enabled": {"type": "boolean"},
					"address": {"type": "string"},
					"phone":   {"type": "string"},
					"url":     {"type": "string"},
					"secret":  {"type": "string"}
				},
				"required": ["enabled"]
			}
		},
		"rules": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"eventType": {"type": "string", "minLength": 1},
					"enabled":   {"type": "boolean"},
					"channels": {
						"type": "array",
						"items": {"type": "string", "enum": ["system", "email", "webhook", "sms"]}
					}
				},
				"required": ["eventType", "enabled", "channels"]
			}
		}
	},
	"required": ["channels", "rules"]
}`

var configSchemaLoader = gojsonschema.NewStringLoader(notificationConfigSchema)

// ValidateNotificationConfig checks a decoded config document against
// the schema and returns a single aggregated error.
func ValidateNotificationConfig(doc map[string]interface{}) error {
	result, err := gojsonschema.Validate(configSchemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("notification config invalid: %s", strings.Join(msgs, "; "))
}
