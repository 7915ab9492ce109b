package pyproject

import (
	"regexp"
	"strings"
)

// Profile is the curated toolchain configuration that audits compare
// against and that init/fmt write out. The zero value is not useful;
// start from DefaultProfile and adjust via With.
type Profile struct {
	LineLength    int
	PythonVersion string // mypy form, e.g. "3.10"
	TargetVersion string // black/ruff form, e.g. "py310"

	IncludePattern string
	ExcludeDirs    []string

	Select []string
	Ignore []string
	Fix    bool

	QuoteStyle             string
	IndentStyle            string
	SkipMagicTrailingComma bool
	LineEnding             string

	CombineAsImports        bool
	ForceSortWithinSections bool
}

// ProfileOverrides are the per-project adjustments a config file may
// apply on top of the default profile. Nil/empty fields leave the
// profile value untouched.
type ProfileOverrides struct {
	LineLength    *int
	TargetVersion string
	Select        []string
	Ignore        []string
	ExtraExclude  []string
	Fix           *bool
}

// DefaultProfile returns the curated settings.
func DefaultProfile() Profile {
	return Profile{
		LineLength:    99,
		PythonVersion: "3.10",
		TargetVersion: "py310",

		IncludePattern: `\.pyi?$`,
		ExcludeDirs: []string{
			".git",
			".hg",
			".mypy_cache",
			".tox",
			"venv",
			"_build",
			"buck-out",
			"build",
			"dist",
			".pytest_cache",
		},

		Select: []string{"E", "W", "F", "I", "C", "B", "UP"},
		Ignore: []string{"E501"},
		Fix:    true,

		QuoteStyle:             "double",
		IndentStyle:            "space",
		SkipMagicTrailingComma: false,
		LineEnding:             "auto",

		CombineAsImports:        true,
		ForceSortWithinSections: true,
	}
}

// With returns a copy of the profile with the overrides applied.
func (p Profile) With(o ProfileOverrides) Profile {
	out := p
	out.ExcludeDirs = append([]string(nil), p.ExcludeDirs...)
	out.Select = append([]string(nil), p.Select...)
	out.Ignore = append([]string(nil), p.Ignore...)

	if o.LineLength != nil {
		out.LineLength = *o.LineLength
	}
	if o.TargetVersion != "" {
		out.TargetVersion = o.TargetVersion
		if v, err := TargetToPythonVersion(o.TargetVersion); err == nil {
			out.PythonVersion = v
		}
	}
	if o.Select != nil {
		out.Select = append([]string(nil), o.Select...)
	}
	if o.Ignore != nil {
		out.Ignore = append([]string(nil), o.Ignore...)
	}
	for _, dir := range o.ExtraExclude {
		if !containsString(out.ExcludeDirs, dir) {
			out.ExcludeDirs = append(out.ExcludeDirs, dir)
		}
	}
	if o.Fix != nil {
		out.Fix = *o.Fix
	}
	return out
}

// ExcludePattern renders the excluded directories as the single regex
// the formatter expects, one alternation wrapped in path separators.
func (p Profile) ExcludePattern() string {
	parts := make([]string, 0, len(p.ExcludeDirs))
	for _, dir := range p.ExcludeDirs {
		parts = append(parts, regexp.QuoteMeta(dir))
	}
	return "/(" + strings.Join(parts, "|") + ")/"
}

// Black returns the formatter settings the profile prescribes.
func (p Profile) Black() *BlackSettings {
	return &BlackSettings{
		LineLength:    intPtr(p.LineLength),
		Include:       p.IncludePattern,
		Exclude:       p.ExcludePattern(),
		TargetVersion: []string{p.TargetVersion},
	}
}

// Mypy returns the type-checker settings the profile prescribes. Every
// strictness flag is enabled.
func (p Profile) Mypy() *MypySettings {
	return &MypySettings{
		PythonVersion:        p.PythonVersion,
		NoImplicitOptional:   boolPtr(true),
		DisallowUntypedCalls: boolPtr(true),
		DisallowUntypedDefs:  boolPtr(true),
		WarnRedundantCasts:   boolPtr(true),
		WarnUnreachable:      boolPtr(true),
		WarnUnusedIgnores:    boolPtr(true),
		AllowUntypedGlobals:  boolPtr(true),
		AllowRedefinition:    boolPtr(true),
		ImplicitReexport:     boolPtr(true),
		StrictEquality:       boolPtr(true),
		IgnoreMissingImports: boolPtr(true),
	}
}

// Ruff returns the linter settings the profile prescribes, in the
// modern [tool.ruff.lint] layout.
func (p Profile) Ruff() *RuffSettings {
	return &RuffSettings{
		LineLength:    intPtr(p.LineLength),
		Fix:           boolPtr(p.Fix),
		Exclude:       append([]string(nil), p.ExcludeDirs...),
		TargetVersion: p.TargetVersion,
		Lint: &RuffLintSettings{
			Select: append([]string(nil), p.Select...),
			Ignore: append([]string(nil), p.Ignore...),
			Isort: &RuffIsortSettings{
				CombineAsImports:        boolPtr(p.CombineAsImports),
				ForceSortWithinSections: boolPtr(p.ForceSortWithinSections),
			},
		},
		Format: &RuffFormatSettings{
			QuoteStyle:             p.QuoteStyle,
			IndentStyle:            p.IndentStyle,
			SkipMagicTrailingComma: boolPtr(p.SkipMagicTrailingComma),
			LineEnding:             p.LineEnding,
		},
	}
}

// Document builds a fresh pyproject document holding exactly the
// profile's three tool tables.
func (p Profile) Document() (*Document, error) {
	doc := NewDocument()
	if err := doc.SetBlack(p.Black()); err != nil {
		return nil, err
	}
	if err := doc.SetMypy(p.Mypy()); err != nil {
		return nil, err
	}
	if err := doc.SetRuff(p.Ruff()); err != nil {
		return nil, err
	}
	return doc, nil
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
