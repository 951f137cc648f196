package lint

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// GetOption extracts a typed option with a default value.
func GetOption[T any](opts Options, key string, defaultVal T) T {
	if opts == nil {
		return defaultVal
	}
	v, ok := opts[key]
	if !ok {
		return defaultVal
	}
	if typed, ok := v.(T); ok {
		return typed
	}
	return defaultVal
}

// GetIntOption extracts an int option, handling float64 from JSON and
// numeric strings from YAML round-trips.
func GetIntOption(opts Options, key string, defaultVal int) int {
	if opts == nil {
		return defaultVal
	}
	v, ok := opts[key]
	if !ok {
		return defaultVal
	}
	if n, ok := coerceInt(v); ok {
		return n
	}
	return defaultVal
}

// GetFloatOption extracts a float option.
func GetFloatOption(opts Options, key string, defaultVal float64) float64 {
	if opts == nil {
		return defaultVal
	}
	v, ok := opts[key]
	if !ok {
		return defaultVal
	}
	if f, ok := coerceFloat(v); ok {
		return f
	}
	return defaultVal
}

// GetStringOption extracts a string option.
func GetStringOption(opts Options, key string, defaultVal string) string {
	if opts == nil {
		return defaultVal
	}
	v, ok := opts[key]
	if !ok {
		return defaultVal
	}
	if s, ok := v.(string); ok {
		return s
	}
	return defaultVal
}

// GetBoolOption extracts a bool option.
func GetBoolOption(opts Options, key string, defaultVal bool) bool {
	if opts == nil {
		return defaultVal
	}
	v, ok := opts[key]
	if !ok {
		return defaultVal
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return defaultVal
}

// GetStringSliceOption extracts a string slice option.
func GetStringSliceOption(opts Options, key string, defaultVal []string) []string {
	if opts == nil {
		return defaultVal
	}
	v, ok := opts[key]
	if !ok {
		return defaultVal
	}
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		result := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				result = append(result, str)
			}
		}
		return result
	default:
		return defaultVal
	}
}

// RequireOption returns the raw value for key or an error when absent.
// Evaluators use the Require* family for options that have no sensible
// default; the resulting error is surfaced as a configuration finding
// scoped to the owning rule.
func RequireOption(opts Options, key string) (any, error) {
	if opts == nil {
		return nil, fmt.Errorf("missing required option %q", key)
	}
	v, ok := opts[key]
	if !ok {
		return nil, fmt.Errorf("missing required option %q", key)
	}
	return v, nil
}

// RequireStringOption returns the string value for key or an error.
func RequireStringOption(opts Options, key string) (string, error) {
	v, err := RequireOption(opts, key)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("option %q: expected string, got %T", key, v)
	}
	return s, nil
}

// RequireIntOption returns the int value for key or an error.
func RequireIntOption(opts Options, key string) (int, error) {
	v, err := RequireOption(opts, key)
	if err != nil {
		return 0, err
	}
	n, ok := coerceInt(v)
	if !ok {
		return 0, fmt.Errorf("option %q: expected integer, got %T", key, v)
	}
	return n, nil
}

// RequireFloatOption returns the float value for key or an error.
func RequireFloatOption(opts Options, key string) (float64, error) {
	v, err := RequireOption(opts, key)
	if err != nil {
		return 0, err
	}
	f, ok := coerceFloat(v)
	if !ok {
		return 0, fmt.Errorf("option %q: expected number, got %T", key, v)
	}
	return f, nil
}

// DecodeOption decodes a structured option value (a map or list of maps)
// into target using mapstructure. Used for nested option shapes such as
// meta-tag requirements and compound conditions.
func DecodeOption(opts Options, key string, target any) error {
	v, err := RequireOption(opts, key)
	if err != nil {
		return err
	}
	if err := mapstructure.Decode(v, target); err != nil {
		return fmt.Errorf("option %q: %w", key, err)
	}
	return nil
}

func coerceInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func coerceFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
