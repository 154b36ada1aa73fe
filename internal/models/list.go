package models

import (
	"bytes"
	"encoding/json"
)

// OptionalList separates a list that was never produced (absent) from one
// that was produced and came back empty.
type OptionalList struct {
	items   []string
	present bool
}

// List returns a present list holding a copy of items.
func List(items ...string) OptionalList {
	cp := make([]string, len(items))
	copy(cp, items)
	return OptionalList{items: cp, present: true}
}

func (l OptionalList) Present() bool {
	return l.present
}

// HasItems is true only for a present, non-empty list.
func (l OptionalList) HasItems() bool {
	return l.present && len(l.items) > 0
}

// Items returns the elements, never nil.
func (l OptionalList) Items() []string {
	if l.items == nil {
		return []string{}
	}
	return l.items
}

func (l OptionalList) MarshalJSON() ([]byte, error) {
	if !l.present {
		return []byte("null"), nil
	}
	return json.Marshal(l.Items())
}

func (l *OptionalList) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*l = OptionalList{}
		return nil
	}

	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*l = List(items...)
	return nil
}
