package pyproject

import "testing"

func TestParsePythonVersion(t *testing.T) {
	v, err := ParsePythonVersion("3.10")
	if err != nil {
		t.Fatalf("parse 3.10: %v", err)
	}
	if v.Major() != 3 || v.Minor() != 10 {
		t.Fatalf("unexpected version: %s", v)
	}

	for _, bad := range []string{"3", "3.10.1", "py310", "3.x", ""} {
		if _, err := ParsePythonVersion(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestTargetToPythonVersion(t *testing.T) {
	cases := map[string]string{
		"py38":  "3.8",
		"py310": "3.10",
		"py312": "3.12",
	}
	for target, want := range cases {
		got, err := TargetToPythonVersion(target)
		if err != nil {
			t.Fatalf("convert %q: %v", target, err)
		}
		if got != want {
			t.Fatalf("convert %q: got %q, want %q", target, got, want)
		}
	}

	for _, bad := range []string{"310", "py", "python310", "py3100", ""} {
		if _, err := TargetToPythonVersion(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestPythonToTargetVersion(t *testing.T) {
	got, err := PythonToTargetVersion("3.10")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if got != "py310" {
		t.Fatalf("got %q, want py310", got)
	}

	if _, err := PythonToTargetVersion("3.10.1"); err == nil {
		t.Fatalf("expected error for three-part version")
	}
}

func TestParseVersionConstraint(t *testing.T) {
	c, err := ParseVersionConstraint(">=23.1")
	if err != nil {
		t.Fatalf("parse constraint: %v", err)
	}
	v, err := ParsePythonVersion("24.0")
	if err != nil {
		t.Fatalf("parse version: %v", err)
	}
	if !c.Check(v) {
		t.Fatalf("expected 24.0 to satisfy >=23.1")
	}

	if _, err := ParseVersionConstraint(">>nonsense"); err == nil {
		t.Fatalf("expected error for malformed constraint")
	}
}
