package ui

import "embed"

// Assets holds the dashboard templates and static files
//
//go:embed templates static
var Assets embed.FS
