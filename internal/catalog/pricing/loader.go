package pricing

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed data/*.json
var catalogFS embed.FS

// matrixFiles maps each service type to its embedded catalog document.
var matrixFiles = map[ServiceType]string{
	ServiceWebsite:    "data/website.json",
	ServiceAutomation: "data/automation.json",
	ServiceStarter:    "data/starter.json",
}

// Load builds the catalog from the embedded matrix documents.
func Load() (*Catalog, error) {
	return load(func(name string) ([]byte, error) {
		return catalogFS.ReadFile(name)
	})
}

// LoadDir builds the catalog from JSON documents in an external directory,
// falling back to the embedded copy for files that are absent. This lets
// deployments override pricing without a rebuild.
func LoadDir(dir string) (*Catalog, error) {
	return load(func(name string) ([]byte, error) {
		external := filepath.Join(dir, filepath.Base(name))
		if data, err := os.ReadFile(external); err == nil {
			return data, nil
		}
		return catalogFS.ReadFile(name)
	})
}

func load(read func(name string) ([]byte, error)) (*Catalog, error) {
	catalog := &Catalog{matrices: make(map[ServiceType]*Matrix, len(matrixFiles))}

	for serviceType, file := range matrixFiles {
		data, err := read(file)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", file, err)
		}
		matrix, err := parseMatrix(serviceType, data)
		if err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", file, err)
		}
		if _, ok := matrix.Get(FoundationFeatureID(serviceType)); !ok {
			return nil, fmt.Errorf("catalog %s: missing foundation feature %s", file, FoundationFeatureID(serviceType))
		}
		catalog.matrices[serviceType] = matrix
	}

	return catalog, nil
}

// parseMatrix accepts either catalog document shape: an object keyed by
// feature ID, or an object of category name to feature array. The grouped
// shape is flattened into the keyed shape. Both are parsed with a token
// decoder so the document order becomes the matrix iteration order.
func parseMatrix(serviceType ServiceType, data []byte) (*Matrix, error) {
	matrix := &Matrix{
		serviceType: serviceType,
		features:    make(map[string]Feature),
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}

		trimmed := bytes.TrimLeft(raw, " \t\r\n")
		switch {
		case len(trimmed) > 0 && trimmed[0] == '[':
			// Grouped-by-category shape: the key is the category.
			var group []Feature
			if err := json.Unmarshal(raw, &group); err != nil {
				return nil, fmt.Errorf("category %q: %w", key, err)
			}
			for _, f := range group {
				if f.Category == "" {
					f.Category = key
				}
				if err := matrix.add(f); err != nil {
					return nil, err
				}
			}
		default:
			// Keyed-by-ID shape: the key is the feature ID.
			var f Feature
			if err := json.Unmarshal(raw, &f); err != nil {
				return nil, fmt.Errorf("feature %q: %w", key, err)
			}
			if f.ID == "" {
				f.ID = key
			}
			if err := matrix.add(f); err != nil {
				return nil, err
			}
		}
	}

	return matrix, nil
}

func (m *Matrix) add(f Feature) error {
	if f.ID == "" {
		return fmt.Errorf("feature %q has no ID", f.Name)
	}
	if f.Price < 0 {
		return fmt.Errorf("feature %s has a negative price", f.ID)
	}
	if _, exists := m.features[f.ID]; exists {
		return fmt.Errorf("duplicate feature ID %s", f.ID)
	}
	m.order = append(m.order, f.ID)
	m.features[f.ID] = f
	return nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
