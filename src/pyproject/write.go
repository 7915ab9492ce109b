package pyproject

import (
	"fmt"

	toml "github.com/pelletier/go-toml/v2"
)

// Canonical renders the document in canonical form: managed tables
// normalized through their schemas, keys sorted at every level. Two
// documents holding the same data render to identical bytes, whatever
// order the source file spelled them in.
func (d *Document) Canonical() ([]byte, error) {
	tmp := d.Clone()
	if err := tmp.normalizeManaged(); err != nil {
		return nil, err
	}
	out, err := toml.Marshal(tmp.root)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return out, nil
}

// Clone returns a deep copy sharing nothing with the receiver.
func (d *Document) Clone() *Document {
	return &Document{Path: d.Path, root: cloneTable(d.root)}
}

// normalizeManaged round-trips each managed table through its schema so
// equivalent spellings collapse to one form. Unknown keys survive the
// pass untouched.
func (d *Document) normalizeManaged() error {
	black, err := d.Black()
	if err != nil {
		return err
	}
	if black != nil {
		if err := d.SetBlack(black); err != nil {
			return err
		}
	}

	mypy, err := d.Mypy()
	if err != nil {
		return err
	}
	if mypy != nil {
		if err := d.SetMypy(mypy); err != nil {
			return err
		}
	}

	ruff, err := d.Ruff()
	if err != nil {
		return err
	}
	if ruff != nil {
		if err := d.SetRuff(ruff); err != nil {
			return err
		}
	}
	return nil
}

func cloneTable(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneTable(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(val))
		for i, item := range val {
			out[i] = cloneTable(item)
		}
		return out
	default:
		return val
	}
}
