// Package i18n ships the message catalog for the churn form. It wraps a
// go-i18n bundle loaded from embedded TOML files and satisfies
// render.Translator.
package i18n
