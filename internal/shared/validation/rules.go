package validation

import (
	"errors"
	"fmt"
	"sort"
	"unicode"
	"unicode/utf8"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
)

// FirstCharUpper fails when a non-empty string starts with a lowercase letter.
var FirstCharUpper = ozzo.By(func(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	r, _ := utf8.DecodeRuneInString(s)
	if unicode.ToUpper(r) != r {
		return errors.New("the first letter must be uppercase")
	}
	return nil
})

// Messages flattens a validation error into one message per field, sorted by
// field name. Other errors become a single message.
func Messages(err error) []string {
	if err == nil {
		return nil
	}

	var fieldErrs ozzo.Errors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}

	fields := make([]string, 0, len(fieldErrs))
	for f := range fieldErrs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f, fieldErrs[f].Error()))
	}
	return msgs
}

// IsValidation reports whether err came from a failed validation rule.
func IsValidation(err error) bool {
	var fieldErrs ozzo.Errors
	if errors.As(err, &fieldErrs) {
		return true
	}
	var ruleErr ozzo.Error
	return errors.As(err, &ruleErr)
}
