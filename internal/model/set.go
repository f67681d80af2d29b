package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
)

// StringSet is an unordered collection of unique strings. It is kept sorted
// so that its JSON form is stable.
//
// Stored records hold a *StringSet: nil means the set is absent, which is not
// the same thing as an empty list. An empty set is never persisted.
type StringSet []string

// NewStringSet dedupes values. It returns nil when nothing is left, so callers
// can assign the result straight into an optional field.
func NewStringSet(values ...string) *StringSet {
	seen := make(map[string]struct{}, len(values))
	out := make(StringSet, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)

	return &out
}

// Has reports whether v is a member. A nil set has no members.
func (s *StringSet) Has(v string) bool {
	if s == nil {
		return false
	}
	i := sort.SearchStrings(*s, v)

	return i < len(*s) && (*s)[i] == v
}

// Len is zero for a nil set.
func (s *StringSet) Len() int {
	if s == nil {
		return 0
	}

	return len(*s)
}

// Values returns a copy of the members; never nil.
func (s *StringSet) Values() []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(*s))
	copy(out, *s)

	return out
}

// Scan implements sql.Scanner for jsonb/text columns.
func (s *StringSet) Scan(src interface{}) error {
	if s == nil {
		return fmt.Errorf("model: Scan on nil *StringSet")
	}

	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("model: cannot scan type %T into StringSet", src)
	}

	return s.UnmarshalJSON(raw)
}

// Value implements driver.Valuer. A nil pointer is written as SQL NULL by
// database/sql before this is reached.
func (s StringSet) Value() (driver.Value, error) {
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}

	return string(b), nil
}

// UnmarshalJSON normalises whatever order and duplicates the producer used.
func (s *StringSet) UnmarshalJSON(b []byte) error {
	var values []string
	if err := json.Unmarshal(b, &values); err != nil {
		return err
	}
	if set := NewStringSet(values...); set != nil {
		*s = *set
	} else {
		*s = StringSet{}
	}

	return nil
}
