package domain

import (
	"maps"
	"strings"
)

// CanonicalLanguage is the storage language. Requests for it bypass translation.
const CanonicalLanguage = "en"

// Translations maps a language code to the per-field overrides cached for it.
type Translations map[string]map[string]string

// Lookup returns the cached overrides for lang.
func (t Translations) Lookup(lang string) (map[string]string, bool) {
	fields, ok := t[lang]
	return fields, ok
}

// IsPassthroughLanguage reports whether lang needs no translation.
func IsPassthroughLanguage(lang string) bool {
	lang = strings.TrimSpace(lang)
	return lang == "" || strings.EqualFold(lang, CanonicalLanguage)
}

// NormalizeLanguage lowercases and trims a language code.
func NormalizeLanguage(lang string) string {
	return strings.ToLower(strings.TrimSpace(lang))
}

// LocalizedView is an entity projected into a language: Overrides shadow the
// base fields of the same name, every other field passes through.
type LocalizedView[T any] struct {
	Base      T
	Overrides map[string]string
	Language  string
}

// NewLocalizedView builds a view over base with its own copy of overrides.
func NewLocalizedView[T any](base T, lang string, overrides map[string]string) LocalizedView[T] {
	return LocalizedView[T]{Base: base, Overrides: maps.Clone(overrides), Language: lang}
}

// Value returns the override for field if one exists, else base.
func (v LocalizedView[T]) Value(field, base string) string {
	if o, ok := v.Overrides[field]; ok {
		return o
	}
	return base
}

// Translated reports whether any field is shadowed.
func (v LocalizedView[T]) Translated() bool {
	return len(v.Overrides) > 0
}
