package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON holds a raw jsonb column and round-trips it untouched between the
// database and API payloads.
type JSON []byte

// Scan implements sql.Scanner interface
func (n *JSON) Scan(value interface{}) error {
	if value == nil {
		*n = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*n = v
		return nil
	case string:
		*n = []byte(v)
		return nil
	default:
		return fmt.Errorf("cannot scan type %T into JSON", value)
	}
}

// Value implements driver.Valuer interface
func (n JSON) Value() (driver.Value, error) {
	if n == nil {
		return nil, nil
	}
	return []byte(n), nil
}

// MarshalJSON implements json.Marshaler - returns raw JSON
func (n JSON) MarshalJSON() ([]byte, error) {
	if n == nil {
		return []byte("null"), nil
	}
	return n, nil
}

// UnmarshalJSON implements json.Unmarshaler - stores raw JSON
func (n *JSON) UnmarshalJSON(data []byte) error {
	if data == nil {
		*n = nil
		return nil
	}
	*n = data
	return nil
}

// MustJSON serializes v, panicking on failure. Only for values known to be
// marshalable at compile time (default configs and the like).
func MustJSON(v any) JSON {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
