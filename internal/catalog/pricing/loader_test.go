package pricing

import (
	"os"
	"path/filepath"
	"testing"

	"novyrix_backend/platform/apperr"
)

func TestLoadEmbeddedCatalog(t *testing.T) {
	catalog, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	counts := map[ServiceType]int{
		ServiceWebsite:    12,
		ServiceAutomation: 10,
		ServiceStarter:    8,
	}
	for serviceType, want := range counts {
		matrix, err := catalog.Matrix(serviceType)
		if err != nil {
			t.Fatalf("Matrix(%s): %v", serviceType, err)
		}
		if matrix.Len() != want {
			t.Fatalf("Matrix(%s): %d features, want %d", serviceType, matrix.Len(), want)
		}
	}
}

func TestLoadPreservesDocumentOrder(t *testing.T) {
	catalog, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	matrix, _ := catalog.Matrix(ServiceWebsite)
	features := matrix.Features()
	if features[0].ID != "WEB-BASE" {
		t.Fatalf("expected WEB-BASE first, got %s", features[0].ID)
	}
	if features[1].ID != "WEB-ECOM" {
		t.Fatalf("expected WEB-ECOM second, got %s", features[1].ID)
	}
	if features[len(features)-1].ID != "WEB-ANALYTICS" {
		t.Fatalf("expected WEB-ANALYTICS last, got %s", features[len(features)-1].ID)
	}
}

func TestLoadGroupedShapeFillsCategory(t *testing.T) {
	catalog, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	matrix, _ := catalog.Matrix(ServiceStarter)
	domain, ok := matrix.Get("ST-DOMAIN")
	if !ok {
		t.Fatal("catalog missing ST-DOMAIN")
	}
	if domain.Category != "essentials" {
		t.Fatalf("expected category from group key, got %q", domain.Category)
	}
}

func TestFoundationFeaturePerServiceType(t *testing.T) {
	catalog, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := map[ServiceType]string{
		ServiceWebsite:    "WEB-BASE",
		ServiceAutomation: "WF-CORE",
		ServiceStarter:    "ST-BASE",
	}
	for serviceType, id := range want {
		f, err := catalog.Foundation(serviceType)
		if err != nil {
			t.Fatalf("Foundation(%s): %v", serviceType, err)
		}
		if f.ID != id {
			t.Fatalf("Foundation(%s): got %s, want %s", serviceType, f.ID, id)
		}
		if f.Price <= 0 {
			t.Fatalf("Foundation(%s): non-positive price %d", serviceType, f.Price)
		}
	}
}

func TestParseServiceType(t *testing.T) {
	for _, valid := range []string{"website", "automation", "starter"} {
		if _, err := ParseServiceType(valid); err != nil {
			t.Fatalf("ParseServiceType(%s): %v", valid, err)
		}
	}

	_, err := ParseServiceType("consulting")
	if err == nil {
		t.Fatal("expected error for unknown service type")
	}
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMatrixUnknownServiceType(t *testing.T) {
	catalog, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := catalog.Matrix(ServiceType("consulting")); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoadDirOverridesEmbedded(t *testing.T) {
	dir := t.TempDir()
	override := `{
	  "WEB-BASE": {"name": "Override Site", "description": "test", "price": 99, "category": "foundation", "keywords": ["x"]}
	}`
	if err := os.WriteFile(filepath.Join(dir, "website.json"), []byte(override), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}

	catalog, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}

	// Overridden matrix comes from disk.
	website, _ := catalog.Matrix(ServiceWebsite)
	if website.Len() != 1 {
		t.Fatalf("expected 1 overridden feature, got %d", website.Len())
	}
	base, _ := website.Get("WEB-BASE")
	if base.Price != 99 {
		t.Fatalf("expected override price, got %d", base.Price)
	}

	// Absent files fall back to the embedded copy.
	automation, _ := catalog.Matrix(ServiceAutomation)
	if automation.Len() != 10 {
		t.Fatalf("expected embedded automation matrix, got %d features", automation.Len())
	}
}

func TestLoadDirRejectsOverrideMissingFoundation(t *testing.T) {
	dir := t.TempDir()
	override := `{
	  "WEB-ECOM": {"name": "Shop", "description": "test", "price": 1, "category": "commerce", "keywords": ["x"]}
	}`
	if err := os.WriteFile(filepath.Join(dir, "website.json"), []byte(override), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}

	if _, err := LoadDir(dir); err == nil {
		t.Fatal("expected error for catalog missing its foundation feature")
	}
}

func TestParseMatrixRejectsDuplicateIDs(t *testing.T) {
	doc := `{
	  "grp": [
	    {"featureId": "A-1", "name": "One", "price": 1},
	    {"featureId": "A-1", "name": "Two", "price": 2}
	  ]
	}`
	if _, err := parseMatrix(ServiceWebsite, []byte(doc)); err == nil {
		t.Fatal("expected duplicate ID error")
	}
}

func TestParseMatrixRejectsNegativePrice(t *testing.T) {
	doc := `{"A-1": {"name": "One", "price": -5}}`
	if _, err := parseMatrix(ServiceWebsite, []byte(doc)); err == nil {
		t.Fatal("expected negative price error")
	}
}
