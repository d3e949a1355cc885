// Package frontdesk embeds the templates and static assets served by the BFF.
package frontdesk

import "embed"

// In dev mode both are read from disk instead so edits show up on reload.

//go:embed all:frontend/static
var StaticFS embed.FS

//go:embed all:frontend/templates
var TemplateFS embed.FS
