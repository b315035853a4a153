package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/mindtype/internal/schemas"
	"github.com/jonathan/mindtype/internal/types"
	"gopkg.in/yaml.v3"
)

// FileSource reads catalog tables from a JSON or YAML seed file.
type FileSource struct {
	Path string
}

// Name identifies the source in errors and logs.
func (f FileSource) Name() string {
	return "file:" + f.Path
}

// LoadTables reads, schema-validates and decodes the seed file.
func (f FileSource) LoadTables(_ context.Context) (*types.CatalogTables, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", f.Path, err)
	}
	return DecodeTables(data, filepath.Ext(f.Path))
}

// DecodeTables decodes seed content. ext selects YAML (".yaml", ".yml"); anything else is
// treated as JSON. YAML is normalized to JSON first so both formats go through the same schema.
func DecodeTables(data []byte, ext string) (*types.CatalogTables, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to convert catalog YAML to JSON: %w", err)
		}
		data = converted
	}

	if err := schemas.ValidateCatalog(data); err != nil {
		return nil, err
	}

	var tables types.CatalogTables
	if err := json.Unmarshal(data, &tables); err != nil {
		return nil, fmt.Errorf("failed to parse catalog JSON: %w", err)
	}
	return &tables, nil
}
