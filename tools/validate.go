package tools

import (
	"fmt"
	"strings"

	"github.com/crewkit/crewkit/types"
)

// ValidateArgs checks the supplied arguments against the schema and returns a
// normalized copy: defaults filled in, string values trimmed, JSON numbers
// coerced to the declared type. The input map is never mutated.
//
// Any violation is reported as a validation-kind ToolError naming the
// offending parameter. Unknown parameters are rejected.
func ValidateArgs(tool string, schema types.ParameterSchema, args types.Args) (types.Args, error) {
	normalized := make(types.Args, len(schema))

	for name := range args {
		if _, ok := schema[name]; !ok {
			return nil, types.NewValidationError(tool,
				fmt.Sprintf("unknown parameter %q", name)).WithParam(name)
		}
	}

	for name, param := range schema {
		raw, supplied := args[name]
		if !supplied {
			if param.Required {
				return nil, types.NewValidationError(tool,
					fmt.Sprintf("required parameter %q is missing", name)).WithParam(name)
			}
			if param.Default != nil {
				normalized[name] = param.Default
			}
			continue
		}

		value, err := coerceValue(tool, name, param, raw)
		if err != nil {
			return nil, err
		}
		normalized[name] = value
	}

	return normalized, nil
}

func coerceValue(tool, name string, param types.Parameter, raw any) (any, error) {
	switch param.Type {
	case types.ParamTypeString:
		s, ok := raw.(string)
		if !ok {
			return nil, typeError(tool, name, param.Type, raw)
		}
		s = strings.TrimSpace(s)
		if param.Required && s == "" {
			return nil, types.NewValidationError(tool,
				fmt.Sprintf("required parameter %q is empty", name)).WithParam(name)
		}
		if param.MinLength != nil && len(s) < *param.MinLength {
			return nil, types.NewValidationError(tool,
				fmt.Sprintf("parameter %q is shorter than %d characters", name, *param.MinLength)).WithParam(name)
		}
		if param.MaxLength != nil && len(s) > *param.MaxLength {
			return nil, types.NewValidationError(tool,
				fmt.Sprintf("parameter %q is longer than %d characters", name, *param.MaxLength)).WithParam(name)
		}
		if err := checkEnum(tool, name, param, s); err != nil {
			return nil, err
		}
		return s, nil

	case types.ParamTypeInt:
		f, ok := asFloat(raw)
		if !ok || f != float64(int(f)) {
			return nil, typeError(tool, name, param.Type, raw)
		}
		if err := checkRange(tool, name, param, f); err != nil {
			return nil, err
		}
		n := int(f)
		if err := checkEnum(tool, name, param, n); err != nil {
			return nil, err
		}
		return n, nil

	case types.ParamTypeFloat:
		f, ok := asFloat(raw)
		if !ok {
			return nil, typeError(tool, name, param.Type, raw)
		}
		if err := checkRange(tool, name, param, f); err != nil {
			return nil, err
		}
		if err := checkEnum(tool, name, param, f); err != nil {
			return nil, err
		}
		return f, nil

	case types.ParamTypeBool:
		b, ok := raw.(bool)
		if !ok {
			return nil, typeError(tool, name, param.Type, raw)
		}
		return b, nil

	default:
		return nil, types.NewValidationError(tool,
			fmt.Sprintf("parameter %q has unsupported schema type %q", name, param.Type)).WithParam(name)
	}
}

// asFloat widens any numeric representation to float64. JSON decoding hands
// us float64 for every number; direct Go callers may pass int variants.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func checkRange(tool, name string, param types.Parameter, f float64) error {
	if param.Minimum != nil && f < *param.Minimum {
		return types.NewValidationError(tool,
			fmt.Sprintf("parameter %q is below minimum %v", name, *param.Minimum)).WithParam(name)
	}
	if param.Maximum != nil && f > *param.Maximum {
		return types.NewValidationError(tool,
			fmt.Sprintf("parameter %q is above maximum %v", name, *param.Maximum)).WithParam(name)
	}
	return nil
}

func checkEnum(tool, name string, param types.Parameter, v any) error {
	if len(param.Enum) == 0 {
		return nil
	}
	for _, allowed := range param.Enum {
		if enumEqual(allowed, v) {
			return nil
		}
	}
	return types.NewValidationError(tool,
		fmt.Sprintf("parameter %q must be one of %v, got %v", name, param.Enum, v)).WithParam(name)
}

// enumEqual compares an enum entry with a normalized value, treating all
// numeric representations as equivalent.
func enumEqual(allowed, v any) bool {
	if af, ok := asFloat(allowed); ok {
		if vf, ok := asFloat(v); ok {
			return af == vf
		}
		return false
	}
	return allowed == v
}

func typeError(tool, name string, want types.ParamType, got any) *types.ToolError {
	return types.NewValidationError(tool,
		fmt.Sprintf("parameter %q must be a %s, got %T", name, want, got)).WithParam(name)
}
