package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Report maps "{createdDate}-{eventName}" group keys to the event IDs
// observed for that group. Groups appear in first-occurrence order and IDs
// keep the order they were appended in; both orders survive serialization,
// which is why this is not a plain map.
type Report struct {
	keys   []string
	groups map[string][]string
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{groups: make(map[string][]string)}
}

// Add appends eventID to the group identified by key, creating the group on
// first occurrence.
func (r *Report) Add(key, eventID string) {
	if _, ok := r.groups[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.groups[key] = append(r.groups[key], eventID)
}

// Keys returns the group keys in first-occurrence order.
func (r *Report) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Group returns the event IDs for key, or nil if the group does not exist.
func (r *Report) Group(key string) []string {
	return r.groups[key]
}

// Len returns the number of groups.
func (r *Report) Len() int {
	return len(r.keys)
}

// MarshalJSON writes the groups as a JSON object with keys in insertion
// order. An empty report serializes to {} so a zero-row day still produces a
// well-formed message body.
func (r *Report) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.groups[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON restores a report from its object form. Key order follows
// the document order of the input.
func (r *Report) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("report must be a JSON object, got %v", tok)
	}
	*r = Report{groups: make(map[string][]string)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)
		var ids []string
		if err := dec.Decode(&ids); err != nil {
			return err
		}
		r.keys = append(r.keys, key)
		r.groups[key] = ids
	}
	_, err = dec.Token()
	return err
}
