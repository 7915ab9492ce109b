package pyproject

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClassify(t *testing.T) {
	cases := map[string]FileKind{
		"pyproject.toml":     KindPyproject,
		"sub/pyproject.toml": KindPyproject,
		"setup.cfg":          KindSetupCfg,
		"tox.ini":            KindToxIni,
		"mypy.ini":           KindMypyIni,
		".mypy.ini":          KindMypyIni,
		".flake8":            KindFlake8,
		".isort.cfg":         KindIsortCfg,
		"requirements.txt":   KindUnknown,
		"flake8":             KindUnknown,
	}
	for path, want := range cases {
		if got := Classify(path); got != want {
			t.Fatalf("classify %q: got %s, want %s", path, got, want)
		}
	}
}

func TestParseINI_SectionsAndContinuations(t *testing.T) {
	f := ParseLegacy(".flake8", []byte(`# lint settings
[flake8]
max-line-length = 99
select = E,W,F
exclude =
    .git,
    venv,
    build
ignore: E501

[other]
key = value
`))

	sec := f.Sections["flake8"]
	if sec == nil {
		t.Fatalf("expected a flake8 section, got %#v", f.Sections)
	}
	if sec["max-line-length"] != "99" {
		t.Fatalf("max-line-length: %q", sec["max-line-length"])
	}
	if sec["ignore"] != "E501" {
		t.Fatalf("colon-delimited value: %q", sec["ignore"])
	}

	dirs := splitList(sec["exclude"])
	if diff := cmp.Diff([]string{".git", "venv", "build"}, dirs); diff != "" {
		t.Fatalf("continuation lines (-want +got):\n%s", diff)
	}
}

func TestLegacyRuffTable_MapsFlake8Options(t *testing.T) {
	f := ParseLegacy(".flake8", []byte(`[flake8]
max-line-length = 99
select = E,W,F
extend-select = B
ignore = E501
exclude = ./.git/, venv, build/
`))

	tbl := f.RuffTable()
	if tbl["line-length"] != int64(99) {
		t.Fatalf("line-length: %#v", tbl["line-length"])
	}

	lint, _ := tbl["lint"].(map[string]any)
	if lint == nil {
		t.Fatalf("expected lint table, got %#v", tbl)
	}
	if diff := cmp.Diff([]any{"E", "W", "F", "B"}, lint["select"]); diff != "" {
		t.Fatalf("select (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{"E501"}, lint["ignore"]); diff != "" {
		t.Fatalf("ignore (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{".git", "venv", "build"}, tbl["exclude"]); diff != "" {
		t.Fatalf("exclude cleanup (-want +got):\n%s", diff)
	}
}

func TestLegacyMypyTable_CarriesOnlyManagedKeys(t *testing.T) {
	f := ParseLegacy("mypy.ini", []byte(`[mypy]
python_version = 3.10
disallow_untyped_defs = True
strict_equality = true
plugins = pydantic.mypy
`))

	tbl := f.MypyTable()
	if tbl["python_version"] != "3.10" {
		t.Fatalf("python_version: %#v", tbl["python_version"])
	}
	if tbl["disallow_untyped_defs"] != true || tbl["strict_equality"] != true {
		t.Fatalf("boolean flags: %#v", tbl)
	}
	if _, ok := tbl["plugins"]; ok {
		t.Fatalf("unmanaged key should not be absorbed: %#v", tbl)
	}
}

func TestLegacyIsort_BothHomes(t *testing.T) {
	cfg := ParseLegacy(".isort.cfg", []byte("[settings]\ncombine_as_imports = true\n"))
	if !cfg.ConfiguresIsort() {
		t.Fatalf("expected .isort.cfg [settings] to configure import sorting")
	}

	setup := ParseLegacy("setup.cfg", []byte("[isort]\nforce_sort_within_sections = 1\n"))
	tbl := setup.RuffTable()
	lint, _ := tbl["lint"].(map[string]any)
	isort, _ := lint["isort"].(map[string]any)
	if isort == nil || isort["force-sort-within-sections"] != true {
		t.Fatalf("setup.cfg isort mapping: %#v", tbl)
	}
}

func TestAbsorbLegacy_ExistingValuesWin(t *testing.T) {
	doc := parseDoc(t, `
[tool.mypy]
python_version = "3.11"

[tool.ruff]
line-length = 88
`)

	files := []*LegacyFile{
		ParseLegacy("mypy.ini", []byte("[mypy]\npython_version = 3.10\nwarn_unreachable = True\n")),
		ParseLegacy(".flake8", []byte("[flake8]\nmax-line-length = 79\nselect = E,F\n")),
	}
	if err := AbsorbLegacy(doc, files); err != nil {
		t.Fatalf("absorb: %v", err)
	}

	mypy, err := doc.Mypy()
	if err != nil {
		t.Fatalf("mypy: %v", err)
	}
	if mypy.PythonVersion != "3.11" {
		t.Fatalf("existing python_version should win, got %q", mypy.PythonVersion)
	}
	if mypy.WarnUnreachable == nil || !*mypy.WarnUnreachable {
		t.Fatalf("absorbed flag missing: %#v", mypy.WarnUnreachable)
	}

	ruff, err := doc.Ruff()
	if err != nil {
		t.Fatalf("ruff: %v", err)
	}
	if ruff.LineLength == nil || *ruff.LineLength != 88 {
		t.Fatalf("existing line-length should win, got %#v", ruff.LineLength)
	}
	if got := ruff.EffectiveSelect(); len(got) != 2 || got[0] != "E" || got[1] != "F" {
		t.Fatalf("absorbed select missing: %#v", got)
	}
}

func TestAbsorbLegacy_FalseValuesAreNotSpecial(t *testing.T) {
	doc := parseDoc(t, "[tool.mypy]\nwarn_unreachable = false\n")

	files := []*LegacyFile{
		ParseLegacy("mypy.ini", []byte("[mypy]\nwarn_unreachable = True\nignore_missing_imports = False\n")),
	}
	if err := AbsorbLegacy(doc, files); err != nil {
		t.Fatalf("absorb: %v", err)
	}

	mypy, err := doc.Mypy()
	if err != nil {
		t.Fatalf("mypy: %v", err)
	}
	if mypy.WarnUnreachable == nil || *mypy.WarnUnreachable {
		t.Fatalf("explicit false in pyproject should win over the INI, got %#v", mypy.WarnUnreachable)
	}
	if mypy.IgnoreMissingImports == nil || *mypy.IgnoreMissingImports {
		t.Fatalf("INI false should fill the gap, got %#v", mypy.IgnoreMissingImports)
	}
}

func TestParseINIBool_ConfigparserSpellings(t *testing.T) {
	truthy := []string{"1", "yes", "True", "ON"}
	for _, s := range truthy {
		v, ok := parseINIBool(s)
		if !ok || !v {
			t.Fatalf("expected %q to parse as true", s)
		}
	}
	falsy := []string{"0", "no", "False", "off"}
	for _, s := range falsy {
		v, ok := parseINIBool(s)
		if !ok || v {
			t.Fatalf("expected %q to parse as false", s)
		}
	}
	if _, ok := parseINIBool("maybe"); ok {
		t.Fatalf("expected %q to be rejected", "maybe")
	}
}
