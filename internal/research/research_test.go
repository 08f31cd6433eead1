package research

import (
	"context"
	"strings"
	"testing"

	"github.com/z-beam/zbeam/internal/materials"
)

func testCategories() *materials.Categories {
	ranges := map[string]materials.ValidationRange{
		"density":             {Min: 0.5, Max: 25, Unit: "g/cm³"},
		"meltingPoint":        {Min: 100, Max: 4000, Unit: "°C"},
		"thermalConductivity": {Min: 0.1, Max: 500, Unit: "W/m·K"},
		"hardness":            {Min: 1, Max: 10, Unit: "Mohs"},
		"laserAbsorption":     {Min: 0, Max: 100, Unit: "%"},
		"reflectivity":        {Min: 0, Max: 100, Unit: "%"},
		"ablationThreshold":   {Min: 0.1, Max: 50, Unit: "J/cm²"},
		"oxidationResistance": {Min: 1, Max: 10, Unit: "scale"},
	}
	return &materials.Categories{
		Categories: map[string]materials.Category{
			"metal": {Ranges: ranges},
		},
	}
}

func testFile() *materials.File {
	props := map[string]materials.Property{
		"meltingPoint":        {Value: 660, Unit: "°C", Source: "handbook"},
		"thermalConductivity": {Value: 237, Unit: "W/m·K", Source: "handbook"},
		"hardness":            {Value: 2.75, Unit: "Mohs", Source: "handbook"},
		"laserAbsorption":     {Value: 8, Unit: "%", Source: "handbook"},
		"reflectivity":        {Value: 92, Unit: "%", Source: "handbook"},
		"ablationThreshold":   {Value: 2.1, Unit: "J/cm²", Source: "handbook"},
		"oxidationResistance": {Value: 7, Unit: "scale", Source: "handbook"},
	}
	return &materials.File{
		Materials: map[string]materials.Material{
			"aluminum": {Name: "Aluminum", Category: "metal", Properties: props},
		},
	}
}

func TestAnalyze_FindsMissing(t *testing.T) {
	gaps := Analyze(testFile(), testCategories())
	if len(gaps) != 1 {
		t.Fatalf("Expected 1 gap, got %d: %v", len(gaps), gaps)
	}
	g := gaps[0]
	if g.Material != "aluminum" || g.Property != "density" || g.Kind != GapMissing {
		t.Errorf("Unexpected gap: %+v", g)
	}
}

func TestAnalyze_FindsOutOfRangeAndBadUnit(t *testing.T) {
	file := testFile()
	m := file.Materials["aluminum"]
	m.Properties["density"] = materials.Property{Value: 99, Unit: "g/cm³"}
	m.Properties["hardness"] = materials.Property{Value: 2.75, Unit: "HV"}
	file.Materials["aluminum"] = m

	gaps := Analyze(file, testCategories())
	kinds := map[string]string{}
	for _, g := range gaps {
		kinds[g.Property] = g.Kind
	}
	if kinds["density"] != GapOutOfRange {
		t.Errorf("Expected out_of_range for density, got %q", kinds["density"])
	}
	if kinds["hardness"] != GapInvalid {
		t.Errorf("Expected invalid for hardness, got %q", kinds["hardness"])
	}
}

func TestSimulatedResearcher_Midpoint(t *testing.T) {
	r := NewSimulatedResearcher(testCategories())
	p, err := r.Research(context.Background(), materials.Material{Name: "Aluminum", Category: "metal"}, "density")
	if err != nil {
		t.Fatalf("Research failed: %v", err)
	}
	if p.Value != 12.75 {
		t.Errorf("Expected midpoint 12.75, got %g", p.Value)
	}
	if p.Unit != "g/cm³" || p.Confidence != 1.0 {
		t.Errorf("Unexpected proposal: %+v", p)
	}
}

type fixedResearcher struct {
	proposal Proposal
	err      error
}

func (f *fixedResearcher) Research(context.Context, materials.Material, string) (Proposal, error) {
	return f.proposal, f.err
}

func TestBridge_AppliesConfidentProposal(t *testing.T) {
	file := testFile()
	cats := testCategories()
	bridge := NewBridge(&fixedResearcher{proposal: Proposal{
		Property: "density", Value: 2.7, Unit: "g/cm³", Source: "CRC Handbook", Confidence: 0.95,
	}}, cats, 0.7)

	res, err := bridge.FillGaps(context.Background(), file, Analyze(file, cats))
	if err != nil {
		t.Fatalf("FillGaps failed: %v", err)
	}
	if len(res.Applied) != 1 {
		t.Fatalf("Expected 1 applied update, got %d (rejected: %v)", len(res.Applied), res.Rejected)
	}
	got := file.Materials["aluminum"].Properties["density"]
	if got.Value != 2.7 || got.Source != "CRC Handbook" {
		t.Errorf("Update not merged: %+v", got)
	}
}

func TestBridge_RejectsLowConfidence(t *testing.T) {
	file := testFile()
	cats := testCategories()
	bridge := NewBridge(&fixedResearcher{proposal: Proposal{
		Property: "density", Value: 2.7, Unit: "g/cm³", Source: "guess", Confidence: 0.4,
	}}, cats, 0.7)

	res, err := bridge.FillGaps(context.Background(), file, Analyze(file, cats))
	if err != nil {
		t.Fatalf("FillGaps failed: %v", err)
	}
	if len(res.Applied) != 0 {
		t.Errorf("Low-confidence proposal should not apply: %v", res.Applied)
	}
	if len(res.Rejected) != 1 || !strings.Contains(res.Rejected[0], "confidence") {
		t.Errorf("Expected confidence rejection, got %v", res.Rejected)
	}
	if _, ok := file.Materials["aluminum"].Properties["density"]; ok {
		t.Error("Rejected proposal must not be merged")
	}
}

func TestBridge_RejectsOutOfRangeProposal(t *testing.T) {
	file := testFile()
	cats := testCategories()
	bridge := NewBridge(&fixedResearcher{proposal: Proposal{
		Property: "density", Value: 500, Unit: "g/cm³", Source: "bad", Confidence: 0.99,
	}}, cats, 0.7)

	res, err := bridge.FillGaps(context.Background(), file, Analyze(file, cats))
	if err != nil {
		t.Fatalf("FillGaps failed: %v", err)
	}
	if len(res.Applied) != 0 {
		t.Errorf("Out-of-range proposal should not apply: %v", res.Applied)
	}
	if len(res.Rejected) != 1 || !strings.Contains(res.Rejected[0], "out of range") {
		t.Errorf("Expected range rejection, got %v", res.Rejected)
	}
}

func TestBridge_SkipsNonMissingGaps(t *testing.T) {
	file := testFile()
	cats := testCategories()
	m := file.Materials["aluminum"]
	m.Properties["density"] = materials.Property{Value: 99, Unit: "g/cm³"}
	file.Materials["aluminum"] = m

	bridge := NewBridge(&fixedResearcher{proposal: Proposal{
		Property: "density", Value: 2.7, Unit: "g/cm³", Source: "CRC", Confidence: 0.95,
	}}, cats, 0.7)

	res, err := bridge.FillGaps(context.Background(), file, Analyze(file, cats))
	if err != nil {
		t.Fatalf("FillGaps failed: %v", err)
	}
	if len(res.Applied) != 0 {
		t.Errorf("Out-of-range data needs manual review, not auto-fix: %v", res.Applied)
	}
	if got := file.Materials["aluminum"].Properties["density"].Value; got != 99 {
		t.Errorf("Existing value must be untouched, got %g", got)
	}
}
