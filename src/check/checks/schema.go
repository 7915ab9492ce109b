package checks

import (
	"context"
	"strings"

	"github.com/sofmeright/soundcheck/src/check"
	"github.com/sofmeright/soundcheck/src/pyproject"
)

func init() {
	check.Register("schema", func() check.Module { return &schemaModule{} })
}

type schemaModule struct{}

func (m *schemaModule) Name() string         { return "schema" }
func (m *schemaModule) DefaultEnabled() bool { return true }
func (m *schemaModule) AutoDetect() []string { return []string{"pyproject.toml"} }

func (m *schemaModule) Check(ctx context.Context, file check.FileInfo) ([]check.Finding, error) {
	if pyproject.Classify(file.Path) != pyproject.KindPyproject {
		return nil, nil
	}
	doc, data, err := loadDocument(file)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	var findings []check.Finding

	tables := []struct {
		name   string
		decode func() error
		schema func() any
	}{
		{"black", func() error { _, err := doc.Black(); return err }, func() any { return &pyproject.BlackSettings{} }},
		{"mypy", func() error { _, err := doc.Mypy(); return err }, func() any { return &pyproject.MypySettings{} }},
		{"ruff", func() error { _, err := doc.Ruff(); return err }, func() any { return &pyproject.RuffSettings{} }},
	}

	for _, t := range tables {
		if err := t.decode(); err != nil {
			findings = append(findings, m.typeFinding(file, data, "tool."+t.name, err))
			continue
		}
		unknown, err := doc.UnknownKeys(t.schema(), "tool", t.name)
		if err != nil {
			// Decode errors already reported above.
			continue
		}
		for _, key := range unknown {
			findings = append(findings, check.Finding{
				File:     file.Path,
				Line:     keyLine(data, key),
				Module:   m.Name(),
				Severity: check.SeverityWarning,
				Message:  "unrecognized option tool." + t.name + "." + key,
			})
		}
	}

	return findings, nil
}

func (m *schemaModule) typeFinding(file check.FileInfo, data []byte, table string, err error) check.Finding {
	f := check.Finding{
		File:     file.Path,
		Module:   m.Name(),
		Severity: check.SeverityCritical,
		Message:  "invalid value in [" + table + "]",
	}
	if key, ok := pyproject.ParseErrorKey(err); ok {
		name := strings.Join(key, ".")
		f.Message = "option " + table + "." + name + " has the wrong value type"
		f.Line = keyLine(data, name)
	}
	return f
}

// keyLine resolves a possibly dotted key to its line in the source.
func keyLine(data []byte, key string) int {
	parts := strings.Split(key, ".")
	return pyproject.FindKeyLine(data, parts[len(parts)-1])
}
