// Package validation sanitizes submitted form fields and checks them against
// the board's input rules.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"clubhouse/internal/models"
)

var alphanumeric = regexp.MustCompile(`^[A-Za-z0-9]+$`)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#x27;",
	"<", "&lt;",
	">", "&gt;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

// Sanitize trims surrounding whitespace and escapes characters that are
// unsafe in HTML, including slashes and backticks.
func Sanitize(v string) string {
	return htmlEscaper.Replace(strings.TrimSpace(v))
}

// Errors accumulates per-field messages for a single form submission.
type Errors struct {
	fields []models.FieldError
}

// Add records msg for field.
func (e *Errors) Add(field, msg string) {
	e.fields = append(e.fields, models.FieldError{Field: field, Msg: msg})
}

// Require records msg when value is empty.
func (e *Errors) Require(field, value, msg string) bool {
	if value == "" {
		e.Add(field, msg)
		return false
	}
	return true
}

// Alphanumeric records msg when value holds anything but ASCII letters and digits.
func (e *Errors) Alphanumeric(field, value, msg string) bool {
	if !alphanumeric.MatchString(value) {
		e.Add(field, msg)
		return false
	}
	return true
}

// MaxLength records msg when value exceeds max runes.
func (e *Errors) MaxLength(field, value string, max int, msg string) bool {
	if utf8.RuneCountInString(value) > max {
		e.Add(field, msg)
		return false
	}
	return true
}

// Empty reports whether no messages were recorded.
func (e *Errors) Empty() bool {
	return len(e.fields) == 0
}

// Err returns a validation AppError, or nil when the form is valid.
func (e *Errors) Err() error {
	if e.Empty() {
		return nil
	}
	return models.NewValidationError(e.fields...)
}
