// Package web holds the embedded templates and static assets served in
// release mode. In debug mode the same directory is read from disk so
// template edits show up without a rebuild.
package web

import "embed"

//go:embed templates static
var EmbeddedFS embed.FS
