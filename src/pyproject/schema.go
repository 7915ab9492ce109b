package pyproject

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// BlackSettings is the [tool.black] table: the formatter's maximum line
// length and the include/exclude path regexes, plus the version pins
// black reads from the same table.
type BlackSettings struct {
	LineLength      *int     `toml:"line-length,omitempty"`
	Include         string   `toml:"include,omitempty"`
	Exclude         string   `toml:"exclude,omitempty"`
	TargetVersion   []string `toml:"target-version,omitempty"`
	RequiredVersion string   `toml:"required-version,omitempty"`
	Preview         *bool    `toml:"preview,omitempty"`
}

// MypySettings is the [tool.mypy] table: the target language-version
// marker and the boolean strictness flags.
type MypySettings struct {
	PythonVersion        string `toml:"python_version,omitempty"`
	NoImplicitOptional   *bool  `toml:"no_implicit_optional,omitempty"`
	DisallowUntypedCalls *bool  `toml:"disallow_untyped_calls,omitempty"`
	DisallowUntypedDefs  *bool  `toml:"disallow_untyped_defs,omitempty"`
	WarnRedundantCasts   *bool  `toml:"warn_redundant_casts,omitempty"`
	WarnUnreachable      *bool  `toml:"warn_unreachable,omitempty"`
	WarnUnusedIgnores    *bool  `toml:"warn_unused_ignores,omitempty"`
	AllowUntypedGlobals  *bool  `toml:"allow_untyped_globals,omitempty"`
	AllowRedefinition    *bool  `toml:"allow_redefinition,omitempty"`
	ImplicitReexport     *bool  `toml:"implicit_reexport,omitempty"`
	StrictEquality       *bool  `toml:"strict_equality,omitempty"`
	IgnoreMissingImports *bool  `toml:"ignore_missing_imports,omitempty"`
}

// BoolFlag pairs a TOML key with its decoded value.
type BoolFlag struct {
	Key   string
	Value *bool
}

// StrictnessFlags returns the strictness toggles in document order.
func (m *MypySettings) StrictnessFlags() []BoolFlag {
	return []BoolFlag{
		{"no_implicit_optional", m.NoImplicitOptional},
		{"disallow_untyped_calls", m.DisallowUntypedCalls},
		{"disallow_untyped_defs", m.DisallowUntypedDefs},
		{"warn_redundant_casts", m.WarnRedundantCasts},
		{"warn_unreachable", m.WarnUnreachable},
		{"warn_unused_ignores", m.WarnUnusedIgnores},
		{"allow_untyped_globals", m.AllowUntypedGlobals},
		{"allow_redefinition", m.AllowRedefinition},
		{"implicit_reexport", m.ImplicitReexport},
		{"strict_equality", m.StrictEquality},
		{"ignore_missing_imports", m.IgnoreMissingImports},
	}
}

// RuffSettings is the [tool.ruff] table. The linter moved select/ignore
// and the isort sub-table under [tool.ruff.lint]; the flat fields remain
// so both layouts decode, and EffectiveSelect/EffectiveIgnore hide the
// difference from callers.
type RuffSettings struct {
	LineLength      *int                `toml:"line-length,omitempty"`
	Fix             *bool               `toml:"fix,omitempty"`
	Exclude         []string            `toml:"exclude,omitempty"`
	TargetVersion   string              `toml:"target-version,omitempty"`
	RequiredVersion string              `toml:"required-version,omitempty"`
	Lint            *RuffLintSettings   `toml:"lint,omitempty"`
	Format          *RuffFormatSettings `toml:"format,omitempty"`

	// Deprecated flat layout.
	Select []string           `toml:"select,omitempty"`
	Ignore []string           `toml:"ignore,omitempty"`
	Isort  *RuffIsortSettings `toml:"isort,omitempty"`
}

// RuffLintSettings is the [tool.ruff.lint] sub-table.
type RuffLintSettings struct {
	Select []string           `toml:"select,omitempty"`
	Ignore []string           `toml:"ignore,omitempty"`
	Isort  *RuffIsortSettings `toml:"isort,omitempty"`
}

// RuffFormatSettings is the [tool.ruff.format] sub-table.
type RuffFormatSettings struct {
	QuoteStyle             string `toml:"quote-style,omitempty"`
	IndentStyle            string `toml:"indent-style,omitempty"`
	SkipMagicTrailingComma *bool  `toml:"skip-magic-trailing-comma,omitempty"`
	LineEnding             string `toml:"line-ending,omitempty"`
}

// RuffIsortSettings is the import-sorting sub-table, found under
// [tool.ruff.lint.isort] (modern) or [tool.ruff.isort] (deprecated).
type RuffIsortSettings struct {
	CombineAsImports        *bool `toml:"combine-as-imports,omitempty"`
	ForceSortWithinSections *bool `toml:"force-sort-within-sections,omitempty"`
}

// EffectiveSelect returns the enabled rule categories regardless of layout.
func (r *RuffSettings) EffectiveSelect() []string {
	if r.Lint != nil && r.Lint.Select != nil {
		return r.Lint.Select
	}
	return r.Select
}

// EffectiveIgnore returns the ignored rule codes regardless of layout.
func (r *RuffSettings) EffectiveIgnore() []string {
	if r.Lint != nil && r.Lint.Ignore != nil {
		return r.Lint.Ignore
	}
	return r.Ignore
}

// EffectiveIsort returns the import-sorting settings regardless of layout.
func (r *RuffSettings) EffectiveIsort() *RuffIsortSettings {
	if r.Lint != nil && r.Lint.Isort != nil {
		return r.Lint.Isort
	}
	return r.Isort
}

// UsesLegacyLayout reports whether lint keys sit directly under
// [tool.ruff] instead of [tool.ruff.lint].
func (r *RuffSettings) UsesLegacyLayout() bool {
	return r.Select != nil || r.Ignore != nil || r.Isort != nil
}

// Modernize moves flat lint keys under the lint sub-table. Values
// already in the modern location win over their flat twins.
func (r *RuffSettings) Modernize() {
	if !r.UsesLegacyLayout() {
		return
	}
	if r.Lint == nil {
		r.Lint = &RuffLintSettings{}
	}
	if r.Lint.Select == nil {
		r.Lint.Select = r.Select
	}
	if r.Lint.Ignore == nil {
		r.Lint.Ignore = r.Ignore
	}
	if r.Lint.Isort == nil {
		r.Lint.Isort = r.Isort
	}
	r.Select = nil
	r.Ignore = nil
	r.Isort = nil
}

// ModernizeRuff rewrites a deprecated flat [tool.ruff] layout into the
// [tool.ruff.lint] form. No-op when the table is absent or already
// modern. The flat keys are removed from the raw tree first so the
// rewrite cannot re-import them as unmanaged keys.
func (d *Document) ModernizeRuff() error {
	ruff, err := d.Ruff()
	if err != nil || ruff == nil {
		return err
	}
	if !ruff.UsesLegacyLayout() {
		return nil
	}
	ruff.Modernize()
	d.Delete("tool", "ruff", "select")
	d.Delete("tool", "ruff", "ignore")
	d.Delete("tool", "ruff", "isort")
	return d.SetRuff(ruff)
}

// Black decodes [tool.black]. Returns (nil, nil) when the table is absent.
func (d *Document) Black() (*BlackSettings, error) {
	var s BlackSettings
	ok, err := d.decodeTable(&s, "tool", "black")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// Mypy decodes [tool.mypy]. Returns (nil, nil) when the table is absent.
func (d *Document) Mypy() (*MypySettings, error) {
	var s MypySettings
	ok, err := d.decodeTable(&s, "tool", "mypy")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// Ruff decodes [tool.ruff] including its lint/format sub-tables.
// Returns (nil, nil) when the table is absent.
func (d *Document) Ruff() (*RuffSettings, error) {
	var s RuffSettings
	ok, err := d.decodeTable(&s, "tool", "ruff")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// SetBlack writes the settings back into the raw tree, preserving any
// unmanaged keys already present in [tool.black].
func (d *Document) SetBlack(s *BlackSettings) error {
	return d.setManaged(s, "tool", "black")
}

// SetMypy writes the settings back into the raw tree.
func (d *Document) SetMypy(s *MypySettings) error {
	return d.setManaged(s, "tool", "mypy")
}

// SetRuff writes the settings back into the raw tree.
func (d *Document) SetRuff(s *RuffSettings) error {
	return d.setManaged(s, "tool", "ruff")
}

func (d *Document) setManaged(s any, path ...string) error {
	normalized, err := structToTable(s)
	if err != nil {
		return err
	}
	// Keys already in the table that the new settings do not mention are
	// kept as-is, so a rewrite never drops user configuration.
	if existing, ok := d.Table(path...); ok {
		mergeMissing(normalized, existing)
	}
	d.SetTable(normalized, path...)
	return nil
}

// mergeMissing copies src entries whose keys are absent from dst,
// recursing where both sides hold a table. Presence decides: a dst
// value of false or zero still wins over src.
func mergeMissing(dst, src map[string]any) {
	for k, sv := range src {
		dv, ok := dst[k]
		if !ok {
			dst[k] = sv
			continue
		}
		if dm, ok := dv.(map[string]any); ok {
			if sm, ok := sv.(map[string]any); ok {
				mergeMissing(dm, sm)
			}
		}
	}
}

// structToTable round-trips a settings struct through TOML into a map.
func structToTable(s any) (map[string]any, error) {
	raw, err := toml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding settings: %w", err)
	}
	out := map[string]any{}
	if err := toml.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	return out, nil
}

// UnknownKeys reports dotted key paths present in the table at path but
// absent from the given schema struct. The struct is decoded into as a
// side effect, so pass a throwaway value. Used by the schema check to
// flag misspelled option names.
func (d *Document) UnknownKeys(schema any, path ...string) ([]string, error) {
	tbl, ok := d.Table(path...)
	if !ok {
		return nil, nil
	}
	return unknownKeysIn(tbl, schema)
}

func unknownKeysIn(tbl map[string]any, schema any) ([]string, error) {
	raw, err := toml.Marshal(tbl)
	if err != nil {
		return nil, fmt.Errorf("encoding table: %w", err)
	}

	dec := toml.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	err = dec.Decode(schema)
	if err == nil {
		return nil, nil
	}

	var strict *toml.StrictMissingError
	if !errors.As(err, &strict) {
		return nil, err
	}

	keys := make([]string, 0, len(strict.Errors))
	for _, e := range strict.Errors {
		keys = append(keys, strings.Join(e.Key(), "."))
	}
	sort.Strings(keys)
	// An array of tables reports one miss per element.
	return slices.Compact(keys), nil
}
