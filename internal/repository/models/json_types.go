package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// jsonBytes normalises the driver value of a JSON column.
func jsonBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported JSON column type %T", value)
	}
}

func isEmptyJSON(b []byte) bool {
	return len(b) == 0 || string(b) == "null"
}

// StringSlice maps a JSONB array of strings.
type StringSlice []string

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		// nil is stored as an empty array, never as NULL
		return "[]", nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	b, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("StringSlice Scan: %w", err)
	}
	if isEmptyJSON(b) {
		*s = StringSlice{}
		return nil
	}
	return json.Unmarshal(b, s)
}

// IntSlice maps a JSONB array of integers. A bare number is accepted as a
// single element so rows written with a scalar correct_option still scan.
type IntSlice []int

// Value implements the driver.Valuer interface
func (s IntSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements the sql.Scanner interface
func (s *IntSlice) Scan(value interface{}) error {
	b, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("IntSlice Scan: %w", err)
	}
	if isEmptyJSON(b) {
		*s = IntSlice{}
		return nil
	}
	var single int
	if err := json.Unmarshal(b, &single); err == nil {
		*s = IntSlice{single}
		return nil
	}
	return json.Unmarshal(b, (*[]int)(s))
}

// JSONMap maps a nullable JSONB object.
type JSONMap map[string]interface{}

// Value implements the driver.Valuer interface
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements the sql.Scanner interface
func (m *JSONMap) Scan(value interface{}) error {
	b, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("JSONMap Scan: %w", err)
	}
	if isEmptyJSON(b) {
		*m = nil
		return nil
	}
	return json.Unmarshal(b, (*map[string]interface{})(m))
}
