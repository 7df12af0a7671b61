// internal/models/flag.go
package models

import (
	"database/sql/driver"
	"fmt"
)

// Flag is a yes/no input that accepts JSON booleans as well as 0 and 1.
// It always marshals as a boolean.
type Flag bool

func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("true"), nil
	}
	return []byte("false"), nil
}

func (f *Flag) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "true", "1":
		*f = true
	case "false", "0", "null":
		*f = false
	default:
		return fmt.Errorf("flag must be true, false, 0 or 1, got %s", data)
	}
	return nil
}

// Value implements driver.Valuer for BOOLEAN columns.
func (f Flag) Value() (driver.Value, error) {
	return bool(f), nil
}

// Scan implements sql.Scanner for BOOLEAN columns.
func (f *Flag) Scan(src interface{}) error {
	switch v := src.(type) {
	case bool:
		*f = Flag(v)
	case int64:
		*f = v != 0
	case nil:
		*f = false
	default:
		return fmt.Errorf("cannot scan %T into Flag", src)
	}
	return nil
}
