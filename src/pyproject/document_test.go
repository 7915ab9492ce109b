package pyproject

import (
	"testing"
)

func parseDoc(t *testing.T, src string) *Document {
	t.Helper()

	doc, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestParse_RejectsMalformedTOML(t *testing.T) {
	_, err := Parse([]byte("[tool.black\nline-length = 99\n"))
	if err == nil {
		t.Fatalf("expected parse error for unterminated table header")
	}

	line, _, ok := ParsePosition(err)
	if !ok {
		t.Fatalf("expected a position on the parse error; got: %v", err)
	}
	if line != 1 {
		t.Fatalf("expected error on line 1, got line %d", line)
	}
}

func TestDocument_TableWalksNestedMaps(t *testing.T) {
	doc := parseDoc(t, `
[tool.ruff.lint]
select = ["E", "F"]

[tool.ruff.lint.isort]
combine-as-imports = true
`)

	if _, ok := doc.Table("tool", "ruff", "lint", "isort"); !ok {
		t.Fatalf("expected isort table to be reachable")
	}
	if doc.Has("tool", "black") {
		t.Fatalf("did not expect a black table")
	}
	if !doc.Has("tool", "ruff", "lint", "select") {
		t.Fatalf("expected select key under lint")
	}
}

func TestDocument_SetTableCreatesIntermediates(t *testing.T) {
	doc := NewDocument()
	doc.SetTable(map[string]any{"line-length": int64(99)}, "tool", "black")

	tbl, ok := doc.Table("tool", "black")
	if !ok {
		t.Fatalf("expected tool.black after SetTable")
	}
	if tbl["line-length"] != int64(99) {
		t.Fatalf("expected line-length 99, got %#v", tbl["line-length"])
	}
}

func TestDocument_DeleteRemovesKey(t *testing.T) {
	doc := parseDoc(t, "[tool.ruff]\nselect = [\"E\"]\nline-length = 99\n")

	doc.Delete("tool", "ruff", "select")
	if doc.Has("tool", "ruff", "select") {
		t.Fatalf("expected select to be gone")
	}
	if !doc.Has("tool", "ruff", "line-length") {
		t.Fatalf("expected line-length to survive")
	}
}

func TestDecodeSettings_AbsentTableIsNil(t *testing.T) {
	doc := parseDoc(t, "[project]\nname = \"demo\"\n")

	black, err := doc.Black()
	if err != nil {
		t.Fatalf("black: %v", err)
	}
	if black != nil {
		t.Fatalf("expected nil settings for absent table, got %#v", black)
	}
}

func TestDecodeSettings_TypeMismatchIsAnError(t *testing.T) {
	doc := parseDoc(t, "[tool.black]\nline-length = \"wide\"\n")

	if _, err := doc.Black(); err == nil {
		t.Fatalf("expected decode error for string line-length")
	}
}

func TestUnknownKeys_ReportsMisspelledOptions(t *testing.T) {
	doc := parseDoc(t, `
[tool.black]
line-length = 99
skip-string-normalization = true

[tool.ruff.lint]
selct = ["E"]
`)

	unknown, err := doc.UnknownKeys(&BlackSettings{}, "tool", "black")
	if err != nil {
		t.Fatalf("black unknown keys: %v", err)
	}
	if len(unknown) != 1 || unknown[0] != "skip-string-normalization" {
		t.Fatalf("expected [skip-string-normalization], got %#v", unknown)
	}

	unknown, err = doc.UnknownKeys(&RuffSettings{}, "tool", "ruff")
	if err != nil {
		t.Fatalf("ruff unknown keys: %v", err)
	}
	if len(unknown) != 1 || unknown[0] != "lint.selct" {
		t.Fatalf("expected [lint.selct], got %#v", unknown)
	}
}

func TestFindKeyLine_LocatesKeysInSource(t *testing.T) {
	src := []byte(`[tool.black]
line-length = 99

[tool.mypy]
python_version = "3.10"
strict_equality = true
`)

	if got := FindKeyLine(src, "line-length"); got != 2 {
		t.Fatalf("line-length: expected line 2, got %d", got)
	}
	if got := FindKeyLine(src, "strict_equality"); got != 6 {
		t.Fatalf("strict_equality: expected line 6, got %d", got)
	}
	if got := FindKeyLine(src, "absent"); got != 0 {
		t.Fatalf("absent key: expected 0, got %d", got)
	}
}

func TestFindTableLine_LocatesHeaders(t *testing.T) {
	src := []byte("[tool.black]\nline-length = 99\n\n[tool.ruff.lint]\nselect = []\n")

	if got := FindTableLine(src, "tool.ruff.lint"); got != 4 {
		t.Fatalf("expected header on line 4, got %d", got)
	}
	if got := FindTableLine(src, "tool.mypy"); got != 0 {
		t.Fatalf("expected 0 for missing header, got %d", got)
	}
}

func TestRuffSettings_LegacyLayoutFallbacks(t *testing.T) {
	doc := parseDoc(t, `
[tool.ruff]
select = ["E", "F"]
ignore = ["E501"]

[tool.ruff.isort]
combine-as-imports = true
`)

	ruff, err := doc.Ruff()
	if err != nil {
		t.Fatalf("ruff: %v", err)
	}
	if !ruff.UsesLegacyLayout() {
		t.Fatalf("expected legacy layout detection")
	}
	if got := ruff.EffectiveSelect(); len(got) != 2 || got[0] != "E" {
		t.Fatalf("effective select: %#v", got)
	}
	if got := ruff.EffectiveIgnore(); len(got) != 1 || got[0] != "E501" {
		t.Fatalf("effective ignore: %#v", got)
	}
	isort := ruff.EffectiveIsort()
	if isort == nil || isort.CombineAsImports == nil || !*isort.CombineAsImports {
		t.Fatalf("effective isort: %#v", isort)
	}
}

func TestRuffSettings_ModernLayoutWins(t *testing.T) {
	doc := parseDoc(t, `
[tool.ruff]
select = ["OLD"]

[tool.ruff.lint]
select = ["E", "W"]
`)

	ruff, err := doc.Ruff()
	if err != nil {
		t.Fatalf("ruff: %v", err)
	}
	got := ruff.EffectiveSelect()
	if len(got) != 2 || got[0] != "E" || got[1] != "W" {
		t.Fatalf("expected modern select to win, got %#v", got)
	}
}

func TestModernizeRuff_FlatKeysMoveUnderLint(t *testing.T) {
	doc := parseDoc(t, `
[tool.ruff]
line-length = 99
select = ["E", "F"]
ignore = ["E501"]

[tool.ruff.isort]
combine-as-imports = true
`)

	if err := doc.ModernizeRuff(); err != nil {
		t.Fatalf("modernize: %v", err)
	}

	if doc.Has("tool", "ruff", "select") || doc.Has("tool", "ruff", "isort") {
		t.Fatalf("expected flat keys to be removed")
	}
	ruff, err := doc.Ruff()
	if err != nil {
		t.Fatalf("ruff after modernize: %v", err)
	}
	if ruff.UsesLegacyLayout() {
		t.Fatalf("expected modern layout after modernize")
	}
	if got := ruff.EffectiveSelect(); len(got) != 2 {
		t.Fatalf("select lost in modernize: %#v", got)
	}
	isort := ruff.EffectiveIsort()
	if isort == nil || isort.CombineAsImports == nil || !*isort.CombineAsImports {
		t.Fatalf("isort lost in modernize: %#v", isort)
	}
	if ruff.LineLength == nil || *ruff.LineLength != 99 {
		t.Fatalf("line-length lost in modernize: %#v", ruff.LineLength)
	}
}

func TestSetBlack_PreservesUnmanagedKeys(t *testing.T) {
	doc := parseDoc(t, "[tool.black]\nline-length = 88\nskip-string-normalization = true\n")

	ll := 99
	if err := doc.SetBlack(&BlackSettings{LineLength: &ll}); err != nil {
		t.Fatalf("set black: %v", err)
	}

	tbl, _ := doc.Table("tool", "black")
	if tbl["line-length"] != int64(99) {
		t.Fatalf("expected line-length 99, got %#v", tbl["line-length"])
	}
	if tbl["skip-string-normalization"] != true {
		t.Fatalf("expected unmanaged key to survive, got %#v", tbl)
	}
}

func TestParse_KeepsUnrelatedTables(t *testing.T) {
	doc := parseDoc(t, `
[project]
name = "demo"
dependencies = ["requests"]

[tool.poetry]
version = "1.0.0"
`)

	if !doc.Has("project", "dependencies") {
		t.Fatalf("expected project table to be kept")
	}
	if !doc.Has("tool", "poetry", "version") {
		t.Fatalf("expected tool.poetry to be kept")
	}
}
