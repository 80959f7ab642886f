// Package i18n provides localized user-facing messages for error codes.
package i18n

import (
	"bytes"
	"strings"
	"sync"
	"text/template"

	"golang.org/x/text/language"
)

// Code is a machine-readable error code (duplicated from the errors package
// to avoid an import cycle).
type Code = string

// BaseLocale is the canonical source locale for catalogs.
const BaseLocale = "en-US"

// Catalog maps error codes to message templates for a specific locale.
type Catalog struct {
	locale   string
	messages map[Code]string
}

var (
	catalogsMu sync.RWMutex
	catalogs   = map[string]*Catalog{}
	matchTags  []language.Tag
	matchOrder []string
	matcher    language.Matcher
)

// NewCatalog creates a catalog for a locale from a code-to-template map.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	return &Catalog{locale: locale, messages: messages}
}

// RegisterCatalog registers a catalog for the given locale and rebuilds the
// locale matcher. The base locale must be registered before any lookup.
func RegisterCatalog(locale string, cat *Catalog) {
	catalogsMu.Lock()
	defer catalogsMu.Unlock()

	if _, exists := catalogs[locale]; !exists {
		tag, err := language.Parse(locale)
		if err != nil {
			tag = language.Und
		}
		// The base locale leads the matcher list so it wins ties and
		// serves as the fallback for unknown locales.
		if locale == BaseLocale {
			matchTags = append([]language.Tag{tag}, matchTags...)
			matchOrder = append([]string{locale}, matchOrder...)
		} else {
			matchTags = append(matchTags, tag)
			matchOrder = append(matchOrder, locale)
		}
		matcher = language.NewMatcher(matchTags)
	}
	catalogs[locale] = cat
}

// GetCatalog returns the catalog best matching the requested locale,
// falling back to the base locale.
func GetCatalog(locale string) *Catalog {
	catalogsMu.RLock()
	defer catalogsMu.RUnlock()

	requested := strings.TrimSpace(locale)
	if requested == "" {
		return catalogs[BaseLocale]
	}
	if c, ok := catalogs[requested]; ok {
		return c
	}

	if matcher != nil {
		if tag, err := language.Parse(requested); err == nil {
			if _, index, confidence := matcher.Match(tag); confidence > language.No {
				if c, ok := catalogs[matchOrder[index]]; ok {
					return c
				}
			}
		}
	}
	return catalogs[BaseLocale]
}

// Locale returns the locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message template with the given metadata.
// Falls back to the error code itself if no template is found, and to the
// raw template text if parsing or execution fails.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	tmpl, ok := c.messages[code]
	if !ok {
		return code
	}

	if metadata == nil {
		metadata = map[string]string{}
	}

	t, err := template.New("msg").Parse(tmpl)
	if err != nil {
		return tmpl
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, metadata); err != nil {
		return tmpl
	}
	return buf.String()
}
