package fileio

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// readJSON reads an array of flat objects. Numbers keep their literal form
// so "23.0" stays "23.0"; nested values are rejected.
func readJSON(r io.Reader) ([]map[string]string, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}

	out := make([]map[string]string, 0, len(raw))
	for i, obj := range raw {
		m := make(map[string]string, len(obj))
		for k, v := range obj {
			switch x := v.(type) {
			case nil:
				m[k] = ""
			case string:
				m[k] = x
			case json.Number:
				m[k] = x.String()
			case bool:
				m[k] = strconv.FormatBool(x)
			default:
				return nil, fmt.Errorf("json: item %d: field %q is not a scalar", i+1, k)
			}
		}
		out = append(out, m)
	}
	return out, nil
}
