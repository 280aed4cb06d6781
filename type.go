// File: nabeghe/configurator-go/type.go
package configurator

import (
	"fmt"
	"reflect"
	"strconv"
	"time"
)

// String retrieves a string value for the key.
// Attempts conversion from common types if the resolved value isn't already a string.
func (s *Section) String(key string) (string, error) {
	val, found := s.store.Get(s.name, key)
	if !found {
		return "", fmt.Errorf("key %q not found in section %q", key, s.name)
	}
	if val == nil {
		return "", nil // Treat nil as empty string for convenience
	}

	if strVal, ok := val.(string); ok {
		return strVal, nil
	}

	// Attempt conversion for common types
	switch v := val.(type) {
	case fmt.Stringer:
		return v.String(), nil
	case []byte:
		return string(v), nil
	case int, int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(val).Int(), 10), nil
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(reflect.ValueOf(val).Uint(), 10), nil
	case float32, float64:
		return strconv.FormatFloat(reflect.ValueOf(val).Float(), 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case error:
		return v.Error(), nil
	default:
		return "", fmt.Errorf("cannot convert type %T to string for key %q in section %q", val, key, s.name)
	}
}

// Int64 retrieves an int64 value for the key.
// Attempts conversion from numeric types, parsable strings, and booleans.
func (s *Section) Int64(key string) (int64, error) {
	val, found := s.store.Get(s.name, key)
	if !found {
		return 0, fmt.Errorf("key %q not found in section %q", key, s.name)
	}
	if val == nil {
		return 0, fmt.Errorf("value for key %q in section %q is nil, cannot convert to int64", key, s.name)
	}

	// Use reflection for broader compatibility with numeric types,
	// including json.Number which is a string kind.
	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := v.Uint()
		// Check for potential overflow converting uint64 to int64
		maxInt64 := int64(^uint64(0) >> 1)
		if u > uint64(maxInt64) {
			return 0, fmt.Errorf("cannot convert unsigned integer %d (type %T) to int64 for key %q: overflow", u, val, key)
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		// Truncate float to int
		return int64(v.Float()), nil
	case reflect.String:
		str := v.String()
		if i, err := strconv.ParseInt(str, 0, 64); err == nil { // Use base 0 for auto-detection (e.g., "0xFF")
			return i, nil
		} else {
			if f, ferr := strconv.ParseFloat(str, 64); ferr == nil {
				return int64(f), nil // Truncate
			}
			// Return the original integer parsing error if float also fails
			return 0, fmt.Errorf("cannot convert string %q to int64 for key %q in section %q: %w", str, key, s.name, err)
		}
	case reflect.Bool:
		if v.Bool() {
			return 1, nil
		}
		return 0, nil
	}

	return 0, fmt.Errorf("cannot convert type %T to int64 for key %q in section %q", val, key, s.name)
}

// Bool retrieves a boolean value for the key.
// Attempts conversion from numeric types (0=false, non-zero=true) and parsable strings.
func (s *Section) Bool(key string) (bool, error) {
	val, found := s.store.Get(s.name, key)
	if !found {
		return false, fmt.Errorf("key %q not found in section %q", key, s.name)
	}
	if val == nil {
		return false, fmt.Errorf("value for key %q in section %q is nil, cannot convert to bool", key, s.name)
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Bool:
		return v.Bool(), nil
	case reflect.String:
		str := v.String()
		if b, err := strconv.ParseBool(str); err == nil {
			return b, nil
		} else {
			return false, fmt.Errorf("cannot convert string %q to bool for key %q in section %q: %w", str, key, s.name, err)
		}
	// Numeric interpretation: 0 is false, non-zero is true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() != 0, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() != 0, nil
	case reflect.Float32, reflect.Float64:
		return v.Float() != 0, nil
	}

	return false, fmt.Errorf("cannot convert type %T to bool for key %q in section %q", val, key, s.name)
}

// Float64 retrieves a float64 value for the key.
// Attempts conversion from numeric types, parsable strings, and booleans.
func (s *Section) Float64(key string) (float64, error) {
	val, found := s.store.Get(s.name, key)
	if !found {
		return 0.0, fmt.Errorf("key %q not found in section %q", key, s.name)
	}
	if val == nil {
		return 0.0, fmt.Errorf("value for key %q in section %q is nil, cannot convert to float64", key, s.name)
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), nil
	case reflect.String:
		str := v.String()
		if f, err := strconv.ParseFloat(str, 64); err == nil {
			return f, nil
		} else {
			return 0.0, fmt.Errorf("cannot convert string %q to float64 for key %q in section %q: %w", str, key, s.name, err)
		}
	case reflect.Bool:
		if v.Bool() {
			return 1.0, nil
		}
		return 0.0, nil
	}

	return 0.0, fmt.Errorf("cannot convert type %T to float64 for key %q in section %q", val, key, s.name)
}

// Duration retrieves a duration value for the key.
// Strings parse via time.ParseDuration; numeric values count nanoseconds.
func (s *Section) Duration(key string) (time.Duration, error) {
	val, found := s.store.Get(s.name, key)
	if !found {
		return 0, fmt.Errorf("key %q not found in section %q", key, s.name)
	}

	switch v := val.(type) {
	case time.Duration:
		return v, nil
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("cannot convert string %q to duration for key %q in section %q: %w", v, key, s.name, err)
		}
		return d, nil
	}

	n, err := s.Int64(key)
	if err != nil {
		return 0, fmt.Errorf("cannot convert type %T to duration for key %q in section %q", val, key, s.name)
	}
	return time.Duration(n), nil
}
