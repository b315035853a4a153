// Package schemas embeds the JSON Schema documents for the catalog seed format.
package schemas

import _ "embed"

// Catalog is the JSON Schema for catalog seed files.
//
//go:embed catalog.schema.json
var Catalog string
