// Package uischema loads and applies UI overlays for the churn form: label
// and help-text overrides, translation keys, field order and visibility
// presets. The model builder stays unaware of presentation concerns; the
// decorator is applied after the form model has been built.
package uischema
