// Package migrations embeds the SQL schema migrations for the sqlite driver
// so they compile into the binary.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
