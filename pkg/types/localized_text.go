package types

import (
	"strings"

	pkgerrors "github.com/angelmondragon/bazaar-backend/pkg/errors"
)

// TextRequirement controls how strictly a LocalizedText value is validated.
type TextRequirement int

const (
	// TextOptional accepts an empty value.
	TextOptional TextRequirement = iota
	// TextAnyLanguage requires at least one non-blank language.
	TextAnyLanguage
	// TextBothLanguages requires both English and Arabic.
	TextBothLanguages
)

// LocalizedText carries independent English and Arabic values for one field.
type LocalizedText struct {
	EN string `json:"en,omitempty" bson:"en,omitempty"`
	AR string `json:"ar,omitempty" bson:"ar,omitempty"`
}

// Trimmed returns a copy with surrounding whitespace removed from both languages.
func (t LocalizedText) Trimmed() LocalizedText {
	return LocalizedText{EN: strings.TrimSpace(t.EN), AR: strings.TrimSpace(t.AR)}
}

func (t LocalizedText) IsEmpty() bool {
	tt := t.Trimmed()
	return tt.EN == "" && tt.AR == ""
}

// Validate checks the value against the requirement and reports failures against field.
func (t LocalizedText) Validate(field string, req TextRequirement) error {
	tt := t.Trimmed()
	switch req {
	case TextAnyLanguage:
		if tt.EN == "" && tt.AR == "" {
			return fieldError(field, "at least one of en or ar is required")
		}
	case TextBothLanguages:
		var c pkgerrors.Collector
		if tt.EN == "" {
			c.Add(field+".en", "is required")
		}
		if tt.AR == "" {
			c.Add(field+".ar", "is required")
		}
		return c.Err(field + " requires both en and ar")
	}
	return nil
}

// ValidateOptionalText accepts nil, otherwise requires at least one language.
func ValidateOptionalText(field string, t *LocalizedText) error {
	if t == nil {
		return nil
	}
	return t.Validate(field, TextAnyLanguage)
}

// NormalizeText trims the value and collapses an all-blank value to nil.
func NormalizeText(t *LocalizedText) *LocalizedText {
	if t == nil || t.IsEmpty() {
		return nil
	}
	out := t.Trimmed()
	return &out
}

func fieldError(field, message string) error {
	var c pkgerrors.Collector
	c.Add(field, message)
	return c.Err(field + ": " + message)
}
