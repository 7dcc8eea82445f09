// Package migrations embeds the goose SQL migrations so the binary and the
// integration tests apply the same schema without depending on the working directory.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
