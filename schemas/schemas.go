// Package schemas embeds the JSON Schemas that exported artifacts are
// validated against.
package schemas

import "embed"

// FS holds every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS
