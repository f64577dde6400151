package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/goliatone/go-churnform/pkg/render"
)

//go:embed locales/*.toml
var embeddedLocales embed.FS

// ErrUnknownLocale is returned for locales the catalog has no messages for.
var ErrUnknownLocale = errors.New("i18n: unknown locale")

// Catalog resolves message keys against a go-i18n bundle.
type Catalog struct {
	bundle   *goi18n.Bundle
	fallback string
	locales  []string

	mu         sync.Mutex
	localizers map[string]*goi18n.Localizer
}

var _ render.Translator = (*Catalog)(nil)

// LocalesFS exposes the embedded message files.
func LocalesFS() fs.FS {
	sub, err := fs.Sub(embeddedLocales, "locales")
	if err != nil {
		return embeddedLocales
	}
	return sub
}

// Default loads the embedded English and Spanish catalogs.
func Default() (*Catalog, error) {
	return Load(LocalesFS())
}

// Load reads every *.toml file in fsys. The file name (without extension)
// is the locale tag. English is the fallback locale.
func Load(fsys fs.FS) (*Catalog, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := fs.Glob(fsys, "*.toml")
	if err != nil {
		return nil, fmt.Errorf("i18n: list locales: %w", err)
	}
	if len(entries) == 0 {
		return nil, errors.New("i18n: no locale files found")
	}

	locales := make([]string, 0, len(entries))
	for _, name := range entries {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", name, err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, name); err != nil {
			return nil, fmt.Errorf("i18n: parse %s: %w", name, err)
		}
		locales = append(locales, strings.TrimSuffix(path.Base(name), path.Ext(name)))
	}
	sort.Strings(locales)

	return &Catalog{
		bundle:     bundle,
		fallback:   language.English.String(),
		locales:    locales,
		localizers: make(map[string]*goi18n.Localizer),
	}, nil
}

// Locales lists the locales with a message file.
func (c *Catalog) Locales() []string {
	return append([]string(nil), c.locales...)
}

// Supports reports whether locale (or its base language) has messages.
func (c *Catalog) Supports(locale string) bool {
	tag, err := language.Parse(locale)
	if err != nil {
		return false
	}
	base, _ := tag.Base()
	for _, known := range c.locales {
		if known == tag.String() || known == base.String() {
			return true
		}
	}
	return false
}

// Translate implements render.Translator. Unknown keys return an error so
// callers fall back to their default copy.
func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	if strings.TrimSpace(locale) == "" {
		locale = c.fallback
	}
	if !c.Supports(locale) {
		return "", fmt.Errorf("%w: %s", ErrUnknownLocale, locale)
	}

	cfg := &goi18n.LocalizeConfig{MessageID: key}
	if data := templateData(args); data != nil {
		cfg.TemplateData = data
	}
	msg, err := c.localizer(locale).Localize(cfg)
	if err != nil {
		return "", fmt.Errorf("i18n: %s/%s: %w", locale, key, err)
	}
	return msg, nil
}

// Negotiate picks the best supported locale for an Accept-Language header.
func (c *Catalog) Negotiate(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return c.fallback
	}
	supported := make([]language.Tag, 0, len(c.locales))
	for _, locale := range c.locales {
		supported = append(supported, language.Make(locale))
	}
	_, idx, confidence := language.NewMatcher(supported).Match(tags...)
	if confidence == language.No {
		return c.fallback
	}
	return c.locales[idx]
}

func (c *Catalog) localizer(locale string) *goi18n.Localizer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok := c.localizers[locale]; ok {
		return l
	}
	l := goi18n.NewLocalizer(c.bundle, locale)
	c.localizers[locale] = l
	return l
}

// templateData accepts either a single map or alternating key/value pairs.
func templateData(args []any) map[string]any {
	if len(args) == 0 {
		return nil
	}
	if len(args) == 1 {
		if m, ok := args[0].(map[string]any); ok {
			return m
		}
	}
	data := make(map[string]any, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		if key, ok := args[i].(string); ok {
			data[key] = args[i+1]
		}
	}
	return data
}
