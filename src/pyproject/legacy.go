package pyproject

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// FileKind identifies the configuration files the Python toolchain
// reads besides pyproject.toml.
type FileKind int

const (
	KindUnknown FileKind = iota
	KindPyproject
	KindSetupCfg
	KindToxIni
	KindMypyIni
	KindFlake8
	KindIsortCfg
)

func (k FileKind) String() string {
	switch k {
	case KindPyproject:
		return "pyproject.toml"
	case KindSetupCfg:
		return "setup.cfg"
	case KindToxIni:
		return "tox.ini"
	case KindMypyIni:
		return "mypy.ini"
	case KindFlake8:
		return ".flake8"
	case KindIsortCfg:
		return ".isort.cfg"
	}
	return "unknown"
}

// Classify maps a path to the config file kind its basename implies.
func Classify(path string) FileKind {
	switch filepath.Base(path) {
	case "pyproject.toml":
		return KindPyproject
	case "setup.cfg":
		return KindSetupCfg
	case "tox.ini":
		return KindToxIni
	case "mypy.ini", ".mypy.ini":
		return KindMypyIni
	case ".flake8":
		return KindFlake8
	case ".isort.cfg":
		return KindIsortCfg
	}
	return KindUnknown
}

// LegacyFile is a parsed INI-style config file from the pre-pyproject
// toolchain generation.
type LegacyFile struct {
	Path     string
	Kind     FileKind
	Sections map[string]map[string]string
}

// LoadLegacy reads and parses an INI-style config file.
func LoadLegacy(path string) (*LegacyFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ParseLegacy(path, data), nil
}

// ParseLegacy parses INI-style content. Parsing never fails; malformed
// lines are skipped the way the Python parsers skip them.
func ParseLegacy(path string, data []byte) *LegacyFile {
	return &LegacyFile{Path: path, Kind: Classify(path), Sections: parseINI(data)}
}

// ConfiguresMypy reports whether the file carries a type-checker section.
func (f *LegacyFile) ConfiguresMypy() bool {
	return f.mypySection() != nil
}

// ConfiguresLint reports whether the file carries a flake8 section.
func (f *LegacyFile) ConfiguresLint() bool {
	return f.flake8Section() != nil
}

// ConfiguresIsort reports whether the file carries import-sorting settings.
func (f *LegacyFile) ConfiguresIsort() bool {
	return f.isortSection() != nil
}

func (f *LegacyFile) mypySection() map[string]string {
	switch f.Kind {
	case KindMypyIni, KindSetupCfg:
		return f.Sections["mypy"]
	}
	return nil
}

func (f *LegacyFile) flake8Section() map[string]string {
	switch f.Kind {
	case KindFlake8, KindSetupCfg, KindToxIni:
		return f.Sections["flake8"]
	}
	return nil
}

func (f *LegacyFile) isortSection() map[string]string {
	switch f.Kind {
	case KindIsortCfg:
		return f.Sections["settings"]
	case KindSetupCfg:
		return f.Sections["isort"]
	}
	return nil
}

// AbsorbLegacy merges settings from legacy files into the document's
// tool tables. Values already present in the document win, an explicit
// false included; the legacy files only fill gaps.
func AbsorbLegacy(doc *Document, files []*LegacyFile) error {
	for _, f := range files {
		if tbl := f.MypyTable(); len(tbl) > 0 {
			mergeInto(doc, tbl, "tool", "mypy")
		}
		if tbl := f.RuffTable(); len(tbl) > 0 {
			mergeInto(doc, tbl, "tool", "ruff")
		}
	}
	return nil
}

func mergeInto(doc *Document, fragment map[string]any, path ...string) {
	merged := map[string]any{}
	if existing, ok := doc.Table(path...); ok {
		merged = cloneTable(existing)
	}
	mergeMissing(merged, fragment)
	doc.SetTable(merged, path...)
}

var mypyLegacyKeys = []string{
	"python_version",
	"no_implicit_optional",
	"disallow_untyped_calls",
	"disallow_untyped_defs",
	"warn_redundant_casts",
	"warn_unreachable",
	"warn_unused_ignores",
	"allow_untyped_globals",
	"allow_redefinition",
	"implicit_reexport",
	"strict_equality",
	"ignore_missing_imports",
}

// MypyTable renders the file's type-checker section as a [tool.mypy]
// fragment. Only keys the managed schema models are carried over.
func (f *LegacyFile) MypyTable() map[string]any {
	sec := f.mypySection()
	if sec == nil {
		return nil
	}
	out := map[string]any{}
	for _, key := range mypyLegacyKeys {
		val, ok := sec[key]
		if !ok {
			continue
		}
		if key == "python_version" {
			out[key] = strings.TrimSpace(val)
			continue
		}
		if b, ok := parseINIBool(val); ok {
			out[key] = b
		}
	}
	return out
}

// RuffTable renders the file's flake8 and isort sections as a
// [tool.ruff] fragment in the modern lint layout.
func (f *LegacyFile) RuffTable() map[string]any {
	out := map[string]any{}
	lint := map[string]any{}

	if sec := f.flake8Section(); sec != nil {
		if v, ok := firstKey(sec, "max-line-length", "max_line_length"); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				out["line-length"] = int64(n)
			}
		}
		sel := append(splitList(sec["select"]), splitList(sec["extend-select"])...)
		if len(sel) > 0 {
			lint["select"] = stringsToAny(sel)
		}
		ign := append(splitList(sec["ignore"]), splitList(sec["extend-ignore"])...)
		if len(ign) > 0 {
			lint["ignore"] = stringsToAny(ign)
		}
		if dirs := splitList(sec["exclude"]); len(dirs) > 0 {
			cleaned := make([]string, 0, len(dirs))
			for _, d := range dirs {
				cleaned = append(cleaned, strings.TrimSuffix(strings.TrimPrefix(d, "./"), "/"))
			}
			out["exclude"] = stringsToAny(cleaned)
		}
	}

	if sec := f.isortSection(); sec != nil {
		isort := map[string]any{}
		if b, ok := parseINIBool(sec["combine_as_imports"]); ok {
			isort["combine-as-imports"] = b
		}
		if b, ok := parseINIBool(sec["force_sort_within_sections"]); ok {
			isort["force-sort-within-sections"] = b
		}
		if len(isort) > 0 {
			lint["isort"] = isort
		}
	}

	if len(lint) > 0 {
		out["lint"] = lint
	}
	return out
}

// parseINI is a minimal section scanner, enough for the flat key=value
// files the Python tools read. Indented lines continue the previous
// value, matching how configparser folds multi-line entries.
func parseINI(data []byte) map[string]map[string]string {
	sections := map[string]map[string]string{}
	section := ""
	lastKey := ""
	for _, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, ";") {
			continue
		}
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			section = strings.TrimSpace(trimmed[1 : len(trimmed)-1])
			lastKey = ""
			continue
		}
		if (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")) && lastKey != "" {
			sec := sections[section]
			sec[lastKey] = sec[lastKey] + "\n" + trimmed
			continue
		}
		key, value, ok := splitINILine(trimmed)
		if !ok {
			continue
		}
		if sections[section] == nil {
			sections[section] = map[string]string{}
		}
		sections[section][key] = value
		lastKey = key
	}
	return sections
}

// splitINILine splits on the first '=' or ':', whichever comes first.
func splitINILine(line string) (key, value string, ok bool) {
	idx := strings.IndexByte(line, '=')
	if colon := strings.IndexByte(line, ':'); idx < 0 || (colon >= 0 && colon < idx) {
		idx = colon
	}
	if idx <= 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:]), true
}

// parseINIBool accepts the spellings configparser accepts.
func parseINIBool(s string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "yes", "true", "on":
		return true, true
	case "0", "no", "false", "off":
		return false, true
	}
	return false, false
}

// splitList splits a comma or newline separated list value.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func firstKey(sec map[string]string, keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := sec[k]; ok {
			return v, true
		}
	}
	return "", false
}

func stringsToAny(list []string) []any {
	out := make([]any, len(list))
	for i, s := range list {
		out[i] = s
	}
	return out
}
