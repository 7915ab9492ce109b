// Package rules is the catalog of lint rule categories recognized in
// select and ignore lists. Selectors follow the flake8 convention: a
// letter prefix names a category, optionally narrowed by leading digits
// ("E" is all pycodestyle errors, "E5" the line-length family, "E501"
// one rule).
package rules

import (
	"fmt"
	"sort"
	"strings"
)

// Category describes one rule family.
type Category struct {
	Code    string
	Name    string
	Summary string
}

var catalog = []Category{
	{"A", "flake8-builtins", "shadowing Python builtins with variable or argument names"},
	{"ANN", "flake8-annotations", "missing function and argument type annotations"},
	{"ARG", "flake8-unused-arguments", "function arguments that are never used"},
	{"ASYNC", "flake8-async", "blocking calls and misuse inside async functions"},
	{"B", "flake8-bugbear", "likely bugs and design problems"},
	{"BLE", "flake8-blind-except", "bare or overly broad except clauses"},
	{"C", "mccabe / flake8-comprehensions", "complexity limits and comprehension rewrites"},
	{"COM", "flake8-commas", "trailing comma placement"},
	{"D", "pydocstyle", "docstring presence and formatting"},
	{"DTZ", "flake8-datetimez", "naive datetime construction without a timezone"},
	{"E", "pycodestyle errors", "PEP 8 violations reported as errors"},
	{"EM", "flake8-errmsg", "string literals passed directly to exceptions"},
	{"ERA", "eradicate", "commented-out code"},
	{"F", "pyflakes", "undefined names, unused imports and variables"},
	{"FBT", "flake8-boolean-trap", "boolean positional arguments"},
	{"G", "flake8-logging-format", "eager string formatting in logging calls"},
	{"I", "isort", "import ordering and grouping"},
	{"ICN", "flake8-import-conventions", "conventional aliases for common imports"},
	{"ISC", "flake8-implicit-str-concat", "implicit string literal concatenation"},
	{"N", "pep8-naming", "PEP 8 naming conventions"},
	{"PERF", "perflint", "avoidable performance pitfalls"},
	{"PL", "pylint", "pylint convention, error, refactor and warning rules"},
	{"PT", "flake8-pytest-style", "pytest fixture and assertion style"},
	{"PTH", "flake8-use-pathlib", "os.path calls with pathlib equivalents"},
	{"Q", "flake8-quotes", "quote style consistency"},
	{"RET", "flake8-return", "inconsistent or redundant return statements"},
	{"RUF", "ruff", "rules native to the linter itself"},
	{"S", "flake8-bandit", "common security issues"},
	{"SIM", "flake8-simplify", "code that can be simplified"},
	{"T", "flake8-debugger / flake8-print", "leftover debugger and print calls"},
	{"TID", "flake8-tidy-imports", "banned and relative import patterns"},
	{"TRY", "tryceratops", "exception handling antipatterns"},
	{"UP", "pyupgrade", "syntax that newer Python versions supersede"},
	{"W", "pycodestyle warnings", "PEP 8 violations reported as warnings"},
	{"YTT", "flake8-2020", "sys.version misuse that breaks on Python 3.10+"},
}

var byCode = func() map[string]Category {
	m := make(map[string]Category, len(catalog))
	for _, c := range catalog {
		if _, dup := m[c.Code]; dup {
			panic(fmt.Sprintf("rules: duplicate category %q", c.Code))
		}
		m[c.Code] = c
	}
	return m
}()

// Categories returns the catalog sorted by code.
func Categories() []Category {
	out := append([]Category(nil), catalog...)
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Lookup resolves a selector to its category. Multi-letter prefixes
// fall back to shorter ones, so "PLR" resolves to the pylint family.
func Lookup(selector string) (Category, bool) {
	letters, _, err := splitSelector(selector)
	if err != nil {
		return Category{}, false
	}
	for len(letters) > 0 {
		if c, ok := byCode[letters]; ok {
			return c, true
		}
		letters = letters[:len(letters)-1]
	}
	return Category{}, false
}

// ParseCode splits a selector like "E501" into its letter prefix and
// numeric tail. Lowercase, embedded digits, and empty input are rejected.
func ParseCode(code string) (letters, digits string, err error) {
	return splitSelector(code)
}

// IsKnown reports whether the selector resolves to a cataloged category.
func IsKnown(selector string) bool {
	_, ok := Lookup(selector)
	return ok
}

// Within reports whether code falls under the given selector: same
// letter prefix, and the selector's digits (if any) lead the code's.
// Within("E501", "E") and Within("C408", "C4") hold; Within("UP001", "U")
// does not, because "UP" is its own category.
func Within(code, selector string) bool {
	sl, sd, err := splitSelector(selector)
	if err != nil {
		return false
	}
	cl, cd, err := splitSelector(code)
	if err != nil {
		return false
	}
	return sl == cl && strings.HasPrefix(cd, sd)
}

func splitSelector(s string) (letters, digits string, err error) {
	if s == "" {
		return "", "", fmt.Errorf("empty rule selector")
	}
	i := 0
	for i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
		i++
	}
	if i == 0 {
		return "", "", fmt.Errorf("rule selector %q must start with an uppercase category", s)
	}
	for j := i; j < len(s); j++ {
		if s[j] < '0' || s[j] > '9' {
			return "", "", fmt.Errorf("rule selector %q has a malformed numeric tail", s)
		}
	}
	return s[:i], s[i:], nil
}
