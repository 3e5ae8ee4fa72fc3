// Package forms validates submitted form values against per-field rule
// lists. A field's rules run in order and stop at the first failure.
package forms

import (
	"context"
	"fmt"
	"html"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// Rule checks one field. A non-empty msg is a validation failure; err is
// reserved for lookups that could not be performed. Rules other than
// Required pass on empty input.
type Rule func(ctx context.Context, value string, form Values) (msg string, err error)

// Filter normalizes a value before its rules run.
type Filter func(string) string

// Lookup answers whether a value is already present in a store.
type Lookup func(ctx context.Context, value string) (bool, error)

var (
	validate     = validator.New()
	strictPolicy = bluemonday.StrictPolicy()
	ugcPolicy    = bluemonday.UGCPolicy()
)

func Required() Rule {
	return func(_ context.Context, value string, _ Values) (string, error) {
		if strings.TrimSpace(value) == "" {
			return "This field is required.", nil
		}
		return "", nil
	}
}

func Length(min, max int) Rule {
	return func(_ context.Context, value string, _ Values) (string, error) {
		if value == "" {
			return "", nil
		}
		n := utf8.RuneCountInString(value)
		if n < min || n > max {
			return fmt.Sprintf("Field must be between %d and %d characters long.", min, max), nil
		}
		return "", nil
	}
}

func Email() Rule {
	return func(_ context.Context, value string, _ Values) (string, error) {
		if value == "" {
			return "", nil
		}
		if err := validate.Var(value, "email"); err != nil {
			return "Invalid email address.", nil
		}
		return "", nil
	}
}

// EqualTo requires the value to match another field of the same form.
func EqualTo(other string) Rule {
	return func(_ context.Context, value string, form Values) (string, error) {
		if value != form[other] {
			return fmt.Sprintf("Field must be equal to %s.", other), nil
		}
		return "", nil
	}
}

// FileAllowed checks the extension of an uploaded file name, case-insensitively.
func FileAllowed(exts ...string) Rule {
	return func(_ context.Context, value string, _ Values) (string, error) {
		if value == "" {
			return "", nil
		}
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(value)), ".")
		for _, allowed := range exts {
			if ext == allowed {
				return "", nil
			}
		}
		return "File does not have an approved extension: " + strings.Join(exts, ", "), nil
	}
}

// Unique fails when taken reports the value as already stored.
func Unique(taken Lookup, msg string) Rule {
	return func(ctx context.Context, value string, _ Values) (string, error) {
		if value == "" {
			return "", nil
		}
		exists, err := taken(ctx, value)
		if err != nil {
			return "", err
		}
		if exists {
			return msg, nil
		}
		return "", nil
	}
}

// UniqueUnlessUnchanged skips the lookup when value equals current.
func UniqueUnlessUnchanged(current string, taken Lookup, msg string) Rule {
	unique := Unique(taken, msg)
	return func(ctx context.Context, value string, form Values) (string, error) {
		if value == current {
			return "", nil
		}
		return unique(ctx, value, form)
	}
}

// Exists fails when the value is not stored.
func Exists(present Lookup, msg string) Rule {
	return func(ctx context.Context, value string, _ Values) (string, error) {
		if value == "" {
			return "", nil
		}
		ok, err := present(ctx, value)
		if err != nil {
			return "", err
		}
		if !ok {
			return msg, nil
		}
		return "", nil
	}
}

func TrimSpace(s string) string { return strings.TrimSpace(s) }

// StripTags removes all markup and leaves plain text.
func StripTags(s string) string {
	return html.UnescapeString(strictPolicy.Sanitize(s))
}

// SanitizeHTML keeps the safe subset of user supplied markup.
func SanitizeHTML(s string) string {
	return ugcPolicy.Sanitize(s)
}
