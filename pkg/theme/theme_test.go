package theme

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultTheme(t *testing.T) {
	th := Default()

	if len(th.DefaultLanes) != 5 {
		t.Errorf("got %d default lanes, want 5", len(th.DefaultLanes))
	}
	if _, ok := th.Types["default"]; !ok {
		t.Error("default theme must carry a fallback type")
	}
	if err := th.validate(); err != nil {
		t.Errorf("default theme invalid: %v", err)
	}
}

func TestTypeStyleFallback(t *testing.T) {
	th := Default()

	if got := th.TypeStyle("data").Shape; got != ShapeCylinder {
		t.Errorf("data shape = %q, want cylinder", got)
	}
	if got := th.TypeStyle("quantum-ledger"); got != th.Types["default"] {
		t.Errorf("unknown type should fall back to default, got %+v", got)
	}
	if !th.TypeStyle("external").Dashed {
		t.Error("external type should be dashed")
	}
}

func TestLaneColorsFallback(t *testing.T) {
	th := Default()
	if got := th.LaneColors("Data"); got != th.Lanes["Data"] {
		t.Errorf("known lane colors = %+v", got)
	}
	if got := th.LaneColors("Mystery"); got != th.External {
		t.Errorf("unknown lane should use the external scheme, got %+v", got)
	}
}

func TestIsContainerKeyword(t *testing.T) {
	th := Default()
	for _, kw := range []string{"vpc", "subnet", "boundary"} {
		if !th.IsContainerKeyword(kw) {
			t.Errorf("%q should be a container keyword", kw)
		}
	}
	if th.IsContainerKeyword("service") {
		t.Error("service must not be a container keyword")
	}
}

func TestLoadPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.toml")
	override := `
default_lanes = ["Frontend", "Backend"]

[lanes.Frontend]
fill = "#112233"
stroke = "#001122"
background = "#eef2f6"
`
	if err := os.WriteFile(path, []byte(override), 0o644); err != nil {
		t.Fatal(err)
	}

	th, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(th.DefaultLanes) != 2 || th.DefaultLanes[0] != "Frontend" {
		t.Errorf("lanes = %v", th.DefaultLanes)
	}
	if got := th.LaneColors("Frontend").Fill; got != "#112233" {
		t.Errorf("override fill = %q", got)
	}
	// untouched sections keep defaults
	if got := th.TypeStyle("data").Shape; got != ShapeCylinder {
		t.Errorf("type table lost defaults: %q", got)
	}
}

func TestLoadRejectsBadTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.toml")
	bad := `
[types.widget]
shape = "dodecahedron"
fill = "#000000"
stroke = "#000000"
`
	if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("unknown shape must fail validation")
	}

	badColor := `
[lanes.Frontend]
fill = "cornflower"
stroke = "#001122"
background = "#eef2f6"
`
	if err := os.WriteFile(path, []byte(badColor), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("non-hex lane color must fail validation")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing file must error")
	}
}
