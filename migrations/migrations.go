// Package migrations holds the goose SQL migrations embedded into the
// binary so a deploy needs no external files.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
