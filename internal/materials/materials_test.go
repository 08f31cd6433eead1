package materials

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testMaterialsYAML = `
materials:
  aluminum:
    name: Aluminum
    category: metal
    author_id: 2
    description: Lightweight structural metal.
    properties:
      density:
        value: 2.7
        unit: g/cm3
        source: handbook
  granite:
    name: Granite
    category: stone
    author_id: 1
`

const testCategoriesYAML = `
categories:
  metal:
    description: Metals and alloys.
    ranges:
      density: {min: 0.5, max: 22.6, unit: g/cm3}
      meltingPoint: {min: -39, max: 3422, unit: C}
      thermalConductivity: {min: 6, max: 429, unit: W/mK}
      hardness: {min: 0.2, max: 10, unit: Mohs}
      laserAbsorption: {min: 0.02, max: 0.98, unit: ratio}
      reflectivity: {min: 0.02, max: 0.98, unit: ratio}
      ablationThreshold: {min: 0.1, max: 50, unit: J/cm2}
      oxidationResistance: {min: 0, max: 10, unit: index}
  stone:
    ranges:
      density: {min: 1.5, max: 3.5, unit: g/cm3}
      meltingPoint: {min: 600, max: 1700, unit: C}
      thermalConductivity: {min: 0.5, max: 8, unit: W/mK}
      hardness: {min: 1, max: 8, unit: Mohs}
      laserAbsorption: {min: 0.1, max: 0.98, unit: ratio}
      reflectivity: {min: 0.02, max: 0.9, unit: ratio}
      ablationThreshold: {min: 0.5, max: 30, unit: J/cm2}
      oxidationResistance: {min: 0, max: 10, unit: index}
`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	f, err := Load(writeFixture(t, "Materials.yaml", testMaterialsYAML))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(f.Materials) != 2 {
		t.Fatalf("Expected 2 materials, got %d", len(f.Materials))
	}

	al, err := f.Get("aluminum")
	if err != nil {
		t.Fatal(err)
	}
	if al.Name != "Aluminum" || al.Category != "metal" || al.AuthorID != 2 {
		t.Errorf("Unexpected record: %+v", al)
	}
	density := al.Properties["density"]
	if density.Value != 2.7 || density.Unit != "g/cm3" || density.Source != "handbook" {
		t.Errorf("Unexpected density triple: %+v", density)
	}

	if _, err := f.Get("unobtanium"); err == nil {
		t.Error("Expected error for unknown material")
	}
}

func TestSlugsAndByCategory(t *testing.T) {
	f, err := Load(writeFixture(t, "Materials.yaml", testMaterialsYAML))
	if err != nil {
		t.Fatal(err)
	}

	slugs := f.Slugs()
	if len(slugs) != 2 || slugs[0] != "aluminum" || slugs[1] != "granite" {
		t.Errorf("Unexpected slugs: %v", slugs)
	}

	metals := f.ByCategory("metal")
	if len(metals) != 1 || metals[0] != "aluminum" {
		t.Errorf("Unexpected metals: %v", metals)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := writeFixture(t, "Materials.yaml", testMaterialsYAML)
	f, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	m := f.Materials["granite"]
	m.Description = "Igneous rock."
	f.Materials["granite"] = m

	if err := f.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Backup of the original must exist.
	backup, err := os.ReadFile(path + ".bak")
	if err != nil {
		t.Fatalf("Expected backup file: %v", err)
	}
	if !strings.Contains(string(backup), "Granite") {
		t.Error("Backup does not contain original content")
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Materials["granite"].Description != "Igneous rock." {
		t.Error("Round trip lost the edit")
	}
}

func TestCheckRangeCompleteness(t *testing.T) {
	cats, err := LoadCategories(writeFixture(t, "Categories.yaml", testCategoriesYAML))
	if err != nil {
		t.Fatalf("LoadCategories failed: %v", err)
	}

	if missing := cats.CheckRangeCompleteness(); len(missing) != 0 {
		t.Errorf("Expected complete ranges, got missing: %v", missing)
	}

	// Remove one range and expect exactly one report.
	metal := cats.Categories["metal"]
	delete(metal.Ranges, "hardness")
	cats.Categories["metal"] = metal

	missing := cats.CheckRangeCompleteness()
	if len(missing) != 1 || !strings.Contains(missing[0], "hardness") {
		t.Errorf("Expected one missing hardness range, got: %v", missing)
	}
}

func TestApply(t *testing.T) {
	f, err := Load(writeFixture(t, "Materials.yaml", testMaterialsYAML))
	if err != nil {
		t.Fatal(err)
	}
	cats, err := LoadCategories(writeFixture(t, "Categories.yaml", testCategoriesYAML))
	if err != nil {
		t.Fatal(err)
	}

	// Valid update merges.
	err = f.Apply(PropertyUpdate{
		Material: "granite",
		Property: "density",
		Value:    2.65,
		Unit:     "g/cm3",
		Source:   "research",
	}, cats)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if f.Materials["granite"].Properties["density"].Value != 2.65 {
		t.Error("Update not merged")
	}

	// Out-of-range value rejected.
	err = f.Apply(PropertyUpdate{Material: "granite", Property: "density", Value: 99, Unit: "g/cm3"}, cats)
	if err == nil {
		t.Error("Expected range violation")
	}

	// Unknown property rejected.
	err = f.Apply(PropertyUpdate{Material: "granite", Property: "tastiness", Value: 1, Unit: "x"}, cats)
	if err == nil {
		t.Error("Expected schema rejection")
	}

	// Unit mismatch rejected.
	err = f.Apply(PropertyUpdate{Material: "granite", Property: "density", Value: 2.6, Unit: "kg/m3"}, cats)
	if err == nil {
		t.Error("Expected unit mismatch rejection")
	}
}
