package uischema

import (
	"embed"
	"io/fs"
)

//go:embed ui/schema/*
var embeddedSchema embed.FS

// PresetFull shows every field. PresetCompact shows the four fields of the
// original single-page form and carries the rest as hidden defaults.
const (
	PresetFull    = "full"
	PresetCompact = "compact"
)

// EmbeddedFS returns the bundled UI schema assets for LoadFS.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedSchema, "ui/schema")
	if err != nil {
		panic(err)
	}
	return sub
}
