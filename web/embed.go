// Package web bundles the HTML templates and static assets into the binary.
package web

import (
	"embed"
	"io/fs"
)

//go:embed template/*.html static/*
var content embed.FS

// Templates exposes the template directory as its own root.
func Templates() fs.FS {
	sub, err := fs.Sub(content, "template")
	if err != nil {
		panic(err)
	}
	return sub
}

// Static exposes the asset directory served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
