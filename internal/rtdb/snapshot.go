package rtdb

import "encoding/json"

// Snapshot is the value at a path at read time.
type Snapshot struct {
	Path   string
	Exists bool
	Value  json.RawMessage
}

func (s Snapshot) Decode(v any) error {
	if !s.Exists {
		return nil
	}
	return json.Unmarshal(s.Value, v)
}

// Children splits a root snapshot into its child values.
func (s Snapshot) Children() (map[string]json.RawMessage, error) {
	out := map[string]json.RawMessage{}
	if !s.Exists {
		return out, nil
	}
	if err := json.Unmarshal(s.Value, &out); err != nil {
		return nil, err
	}
	return out, nil
}
