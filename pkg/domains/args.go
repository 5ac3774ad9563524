// Copyright 2026 © The Typhon Authors
// SPDX-License-Identifier: Apache-2.0

package domains

import (
	"encoding/json"
	"fmt"

	typherr "github.com/typhonlabs/typhon/pkg/errors"
)

// Tool inputs arrive as loosely typed maps from the agent layer; these
// helpers coerce individual arguments and report missing required ones
// as INVALID_INPUT.

func argsMap(input any) (map[string]any, error) {
	switch v := input.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return v, nil
	default:
		return nil, typherr.New(typherr.CodeInvalidInput,
			fmt.Sprintf("expected object input, got %T", input), nil)
	}
}

func stringArg(args map[string]any, key string, required bool) (string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		if required {
			return "", typherr.New(typherr.CodeInvalidInput,
				fmt.Sprintf("missing required argument %q", key), nil).
				WithContext("argument", key)
		}
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", typherr.New(typherr.CodeInvalidInput,
			fmt.Sprintf("argument %q must be a string, got %T", key, raw), nil).
			WithContext("argument", key)
	}
	return s, nil
}

func floatArg(args map[string]any, key string, required bool) (float64, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		if required {
			return 0, typherr.New(typherr.CodeInvalidInput,
				fmt.Sprintf("missing required argument %q", key), nil).
				WithContext("argument", key)
		}
		return 0, nil
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, typherr.New(typherr.CodeInvalidInput,
				fmt.Sprintf("argument %q is not numeric: %v", key, err), nil)
		}
		return f, nil
	default:
		return 0, typherr.New(typherr.CodeInvalidInput,
			fmt.Sprintf("argument %q must be numeric, got %T", key, raw), nil).
			WithContext("argument", key)
	}
}

func intArg(args map[string]any, key string, required bool) (int, error) {
	f, err := floatArg(args, key, required)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func stringSliceArg(args map[string]any, key string, required bool) ([]string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		if required {
			return nil, typherr.New(typherr.CodeInvalidInput,
				fmt.Sprintf("missing required argument %q", key), nil).
				WithContext("argument", key)
		}
		return nil, nil
	}
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, typherr.New(typherr.CodeInvalidInput,
					fmt.Sprintf("argument %q must be a list of strings", key), nil)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, typherr.New(typherr.CodeInvalidInput,
			fmt.Sprintf("argument %q must be a list, got %T", key, raw), nil).
			WithContext("argument", key)
	}
}

func argError(msg string) error {
	return typherr.New(typherr.CodeInvalidInput, msg, nil)
}

// toJSON marshals a tool result. Datasets are static so a marshal
// failure here is a programming error.
func toJSON(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}
	return string(raw)
}
