// Package i18n provides internationalization support for error messages.
package i18n

import (
	"bytes"
	"strings"
	"sync"
	"text/template"

	i18ncatalog "github.com/louisbranch/fairdice/internal/platform/i18n/catalog"
)

// Code is a machine-readable error code (duplicated from errors package to avoid cycle).
type Code = string

// Catalog maps error codes to message templates for a specific locale.
type Catalog struct {
	locale    string
	messages  map[Code]string
	templates map[Code]*template.Template
}

var (
	catalogsMu sync.RWMutex
	// catalogs holds override and runtime-built catalogs by locale.
	catalogs = map[string]*Catalog{}
)

// GetCatalog returns the catalog for the closest bundled locale.
// Falls back to en-US if nothing matches.
func GetCatalog(locale string) *Catalog {
	requested := strings.TrimSpace(locale)
	if requested == "" {
		requested = i18ncatalog.BaseLocale
	}

	if c, ok := lookupCatalog(requested); ok {
		return c
	}

	bundle := i18ncatalog.Default()
	resolvedLocale, messages := bundle.NamespaceMessagesWithFallback(bundle.Match(requested), "errors")
	if c, ok := lookupCatalog(resolvedLocale); ok {
		return c
	}

	built := NewCatalog(resolvedLocale, messages)
	return storeCatalogIfAbsent(resolvedLocale, built)
}

// Locale returns the locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message template with the given metadata.
// Falls back to the error code itself if no template is found, and to the raw
// template text when it does not parse or execute.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	raw, ok := c.messages[code]
	if !ok {
		return code
	}
	tmpl, ok := c.templates[code]
	if !ok {
		return raw
	}

	// Ensure metadata is non-nil for template execution
	if metadata == nil {
		metadata = map[string]string{}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, metadata); err != nil {
		return raw
	}
	return buf.String()
}

// RegisterCatalog registers a new catalog for the given locale.
// This is primarily for testing purposes.
func RegisterCatalog(locale string, cat *Catalog) {
	catalogsMu.Lock()
	defer catalogsMu.Unlock()
	catalogs[locale] = cat
}

// NewCatalog creates a new catalog with the given locale and messages.
// Templates are parsed once here; entries that fail to parse render verbatim.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	cloned := make(map[Code]string, len(messages))
	templates := make(map[Code]*template.Template, len(messages))
	for key, value := range messages {
		cloned[key] = value
		tmpl, err := template.New(key).Parse(value)
		if err != nil {
			continue
		}
		templates[key] = tmpl
	}
	return &Catalog{
		locale:    locale,
		messages:  cloned,
		templates: templates,
	}
}

func lookupCatalog(locale string) (*Catalog, bool) {
	catalogsMu.RLock()
	defer catalogsMu.RUnlock()
	cat, ok := catalogs[locale]
	return cat, ok
}

func storeCatalogIfAbsent(locale string, candidate *Catalog) *Catalog {
	catalogsMu.Lock()
	defer catalogsMu.Unlock()
	if existing, ok := catalogs[locale]; ok {
		return existing
	}
	catalogs[locale] = candidate
	return candidate
}
