package pyproject

import (
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultProfile_LineLengthsAgree(t *testing.T) {
	p := DefaultProfile()

	black := p.Black()
	ruff := p.Ruff()

	if black.LineLength == nil || *black.LineLength != 99 {
		t.Fatalf("formatter line length: %#v", black.LineLength)
	}
	if ruff.LineLength == nil || *ruff.LineLength != 99 {
		t.Fatalf("linter line length: %#v", ruff.LineLength)
	}
}

func TestDefaultProfile_RuleSets(t *testing.T) {
	p := DefaultProfile()
	ruff := p.Ruff()

	wantSelect := []string{"E", "W", "F", "I", "C", "B", "UP"}
	if diff := cmp.Diff(wantSelect, ruff.EffectiveSelect()); diff != "" {
		t.Fatalf("select mismatch (-want +got):\n%s", diff)
	}

	wantIgnore := []string{"E501"}
	if diff := cmp.Diff(wantIgnore, ruff.EffectiveIgnore()); diff != "" {
		t.Fatalf("ignore mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultProfile_EveryStrictnessFlagEnabled(t *testing.T) {
	mypy := DefaultProfile().Mypy()

	flags := mypy.StrictnessFlags()
	if len(flags) != 11 {
		t.Fatalf("expected 11 strictness flags, got %d", len(flags))
	}
	for _, f := range flags {
		if f.Value == nil || !*f.Value {
			t.Fatalf("flag %s is not enabled: %#v", f.Key, f.Value)
		}
	}
	if mypy.IgnoreMissingImports == nil || !*mypy.IgnoreMissingImports {
		t.Fatalf("ignore_missing_imports must be enabled")
	}
	if mypy.PythonVersion != "3.10" {
		t.Fatalf("python_version: %q", mypy.PythonVersion)
	}
}

func TestDefaultProfile_ExcludePatternMatchesToolCaches(t *testing.T) {
	black := DefaultProfile().Black()

	re, err := regexp.Compile(black.Exclude)
	if err != nil {
		t.Fatalf("exclude pattern does not compile: %v", err)
	}

	matching := []string{
		"/repo/.git/config",
		"/repo/.hg/store/data",
		"/repo/.mypy_cache/3.10/mod.meta.json",
		"/repo/.tox/py310/lib/site.py",
		"/repo/venv/lib/python3.10/site-packages/x.py",
		"/repo/_build/html/index.py",
		"/repo/buck-out/gen/app.py",
		"/repo/build/lib/pkg/__init__.py",
		"/repo/dist/pkg/module.py",
		"/repo/.pytest_cache/v/cache/lastfailed",
	}
	for _, path := range matching {
		if !re.MatchString(path) {
			t.Fatalf("expected exclude pattern to match %q", path)
		}
	}

	nonMatching := []string{
		"/repo/src/app/main.py",
		"/repo/venv2/x.py",
		"/repo/builds/x.py",
		"/repo/distribution/x.py",
	}
	for _, path := range nonMatching {
		if re.MatchString(path) {
			t.Fatalf("exclude pattern must not match %q", path)
		}
	}
}

func TestDefaultProfile_IncludePatternCoversStubs(t *testing.T) {
	black := DefaultProfile().Black()

	re, err := regexp.Compile(black.Include)
	if err != nil {
		t.Fatalf("include pattern does not compile: %v", err)
	}

	for _, path := range []string{"app/main.py", "app/types.pyi"} {
		if !re.MatchString(path) {
			t.Fatalf("expected include pattern to match %q", path)
		}
	}
	for _, path := range []string{"README.md", "app/main.pyc"} {
		if re.MatchString(path) {
			t.Fatalf("include pattern must not match %q", path)
		}
	}
}

func TestProfileDocument_SurvivesCanonicalRoundTrip(t *testing.T) {
	doc, err := DefaultProfile().Document()
	if err != nil {
		t.Fatalf("document: %v", err)
	}

	out, err := doc.Canonical()
	if err != nil {
		t.Fatalf("canonical: %v", err)
	}
	reparsed, err := Parse(out)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}

	if diff := cmp.Diff(doc.Raw(), reparsed.Raw()); diff != "" {
		t.Fatalf("round trip changed the profile document (-orig +reparsed):\n%s", diff)
	}

	ruff, err := reparsed.Ruff()
	if err != nil {
		t.Fatalf("ruff: %v", err)
	}
	if ruff.UsesLegacyLayout() {
		t.Fatalf("profile document must use the modern lint layout")
	}
	isort := ruff.EffectiveIsort()
	if isort == nil ||
		isort.CombineAsImports == nil || !*isort.CombineAsImports ||
		isort.ForceSortWithinSections == nil || !*isort.ForceSortWithinSections {
		t.Fatalf("isort settings lost in round trip: %#v", isort)
	}
	if ruff.Format == nil || ruff.Format.QuoteStyle != "double" || ruff.Format.IndentStyle != "space" {
		t.Fatalf("format settings lost in round trip: %#v", ruff.Format)
	}
}

func TestProfileWith_AppliesOverrides(t *testing.T) {
	ll := 120
	fix := false
	p := DefaultProfile().With(ProfileOverrides{
		LineLength:    &ll,
		TargetVersion: "py311",
		Select:        []string{"E", "F"},
		ExtraExclude:  []string{"node_modules", "venv"},
		Fix:           &fix,
	})

	if p.LineLength != 120 {
		t.Fatalf("line length override: %d", p.LineLength)
	}
	if p.TargetVersion != "py311" || p.PythonVersion != "3.11" {
		t.Fatalf("target override: %q / %q", p.TargetVersion, p.PythonVersion)
	}
	if diff := cmp.Diff([]string{"E", "F"}, p.Select); diff != "" {
		t.Fatalf("select override (-want +got):\n%s", diff)
	}
	if len(p.ExcludeDirs) != 11 || p.ExcludeDirs[10] != "node_modules" {
		t.Fatalf("extra exclude should append once: %#v", p.ExcludeDirs)
	}
	if p.Fix {
		t.Fatalf("fix override lost")
	}

	// The default profile is untouched.
	if d := DefaultProfile(); d.LineLength != 99 || len(d.ExcludeDirs) != 10 {
		t.Fatalf("default profile mutated: %#v", d)
	}
}
