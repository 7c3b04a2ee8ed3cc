package tool

import (
	"encoding/json"
	"fmt"
	"math"
)

// coerceArgs validates args against the declared params and normalizes JSON
// decoding artifacts (float64 for integers, []any for string arrays).
// Undeclared keys are passed through untouched; handlers ignore what they
// don't know. The input map is never mutated.
func coerceArgs(params map[string]Param, args map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = v
	}

	for name, p := range params {
		raw, present := args[name]
		if !present || raw == nil {
			if p.Required {
				return nil, fmt.Errorf("%s is required", name)
			}
			delete(out, name)
			continue
		}

		coerced, err := coerceValue(name, p.Type, raw)
		if err != nil {
			return nil, err
		}
		out[name] = coerced
	}

	return out, nil
}

func coerceValue(name string, t ParamType, raw any) (any, error) {
	switch t {
	case ParamString:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%s must be a string", name)
		}
		return s, nil

	case ParamInteger:
		return coerceInt(name, raw)

	case ParamBoolean:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("%s must be a boolean", name)
		}
		return b, nil

	case ParamStringArray:
		return coerceStringSlice(name, raw)

	default:
		return nil, fmt.Errorf("%s has unsupported parameter type %q", name, t)
	}
}

func coerceInt(name string, raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		// JSON numbers decode as float64; accept only integral values.
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%s must be an integer", name)
		}
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer", name)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("%s must be an integer", name)
	}
}

func coerceStringSlice(name string, raw any) ([]string, error) {
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s must be an array of strings", name)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s must be an array of strings", name)
	}
}

// Typed accessors for handlers. Defaults apply when the key is absent;
// coerceArgs has already guaranteed types for declared params.

func stringArg(args map[string]any, key, fallback string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func intArg(args map[string]any, key string, fallback int) int {
	if v, ok := args[key].(int); ok {
		return v
	}
	return fallback
}

func stringSliceArg(args map[string]any, key string) []string {
	if v, ok := args[key].([]string); ok {
		return v
	}
	return nil
}
