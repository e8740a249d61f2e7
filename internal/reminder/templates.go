// internal/reminder/templates.go
package reminder

import (
	"fmt"
	"strings"

	"keyexpiry-workers/internal/models"
)

// Subject/body templates keyed by event type. Placeholders use the
// {{name}} form; unresolved placeholders are stripped from the output.
var templateRegistry = map[string]struct {
	subject string
	body    string
}{
	models.EventExpirationWarning: {
		subject: "API key {{displayName}} expires in {{days}} {{dayWord}}",
		body:    "Your API key {{displayName}} expires in {{days}} {{dayWord}}. Rotate or renew it before {{expiresAt}} to avoid interrupted relay access.",
	},
}

// expiryUrgentSubject replaces the standard subject at the 1-day
// threshold; one day out is qualitatively different from seven.
const expiryUrgentSubject = "URGENT: API key {{displayName}} expires tomorrow"

// RenderExpiryWarning produces the title, message and structured data
// for an expiration warning. The message always carries the key's
// display name and the exact integer days remaining, and the tone
// escalates as the threshold shrinks.
func RenderExpiryWarning(key models.APIKey, days int) (title, message string, data map[string]interface{}) {
	tmpl := templateRegistry[models.EventExpirationWarning]

	dayWord := "days"
	if days == 1 {
		dayWord = "day"
	}

	fields := map[string]interface{}{
		"displayName": key.DisplayName,
		"days":        days,
		"dayWord":     dayWord,
		"expiresAt":   key.ExpiresAt.UTC().Format("2006-01-02"),
	}

	subject := tmpl.subject
	body := tmpl.body
	switch {
	case days <= 1:
		subject = expiryUrgentSubject
		body = "URGENT: " + body + " After expiry the key stops working immediately."
	case days <= 3:
		body = body + " This is one of your final reminders."
	}

	title = renderTemplate(subject, fields)
	message = renderTemplate(body, fields)
	data = map[string]interface{}{
		"keyId":         key.ID,
		"displayName":   key.DisplayName,
		"daysRemaining": days,
		"expiresAt":     key.ExpiresAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
	return title, message, data
}

// renderTemplate substitutes {{placeholder}} values and strips any
// placeholder left unresolved.
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl

	for k, v := range data {
		placeholder := "{{" + k + "}}"
		value := ""
		if s, ok := v.(string); ok {
			value = s
		} else if i, ok := v.(int); ok {
			value = fmt.Sprintf("%d", i)
		} else if v != nil {
			value = fmt.Sprintf("%v", v)
		}
		result = strings.ReplaceAll(result, placeholder, value)
	}

	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		end += start + 2
		result = result[:start] + result[end:]
	}

	return result
}
