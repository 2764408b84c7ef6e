// Package migrations embebe el esquema para goose, un directorio por dialecto.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
