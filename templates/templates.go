// Package templates embeds the HTML templates so the binary runs from any
// working directory.
package templates

import "embed"

//go:embed layouts/*.html pages/*.html components/*.html
var FS embed.FS
