// Package web embeds the dashboard templates and static assets.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates
var templates embed.FS

//go:embed static
var static embed.FS

// Templates is rooted at the templates directory (layout.html, partials/,
// one directory per screen).
func Templates() fs.FS { return sub(templates, "templates") }

// Static is rooted at the static directory.
func Static() fs.FS { return sub(static, "static") }

func sub(fsys embed.FS, dir string) fs.FS {
	s, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return s
}
