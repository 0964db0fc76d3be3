package types

// ParamType represents the accepted parameter value types.
type ParamType string

const (
	ParamTypeString ParamType = "string"
	ParamTypeInt    ParamType = "integer"
	ParamTypeFloat  ParamType = "number"
	ParamTypeBool   ParamType = "boolean"
)

// Parameter describes the constraints on a single tool parameter.
type Parameter struct {
	Type        ParamType `json:"type"`
	Description string    `json:"description,omitempty"`
	Required    bool      `json:"required"`

	// Default is applied when the caller omits the parameter. Only
	// meaningful for optional parameters.
	Default any `json:"default,omitempty"`

	// Enum restricts the value to a fixed set.
	Enum []any `json:"enum,omitempty"`

	// Numeric constraints (integer and number types).
	Minimum *float64 `json:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`

	// String constraints.
	MinLength *int `json:"minLength,omitempty"`
	MaxLength *int `json:"maxLength,omitempty"`
}

// ParameterSchema maps parameter names to their constraints. A tool's schema
// is fixed at construction time and must not be mutated afterwards.
type ParameterSchema map[string]Parameter

// NewSchema creates an empty parameter schema.
func NewSchema() ParameterSchema {
	return make(ParameterSchema)
}

// Add inserts a parameter and returns the schema for chaining.
func (s ParameterSchema) Add(name string, p Parameter) ParameterSchema {
	s[name] = p
	return s
}

// Required returns the names of all required parameters.
func (s ParameterSchema) Required() []string {
	names := make([]string, 0, len(s))
	for name, p := range s {
		if p.Required {
			names = append(names, name)
		}
	}
	return names
}

// StringParam creates a string parameter.
func StringParam(description string, required bool) Parameter {
	return Parameter{Type: ParamTypeString, Description: description, Required: required}
}

// IntParam creates an integer parameter.
func IntParam(description string, required bool) Parameter {
	return Parameter{Type: ParamTypeInt, Description: description, Required: required}
}

// FloatParam creates a number parameter.
func FloatParam(description string, required bool) Parameter {
	return Parameter{Type: ParamTypeFloat, Description: description, Required: required}
}

// BoolParam creates a boolean parameter.
func BoolParam(description string, required bool) Parameter {
	return Parameter{Type: ParamTypeBool, Description: description, Required: required}
}

// WithDefault sets the default value.
func (p Parameter) WithDefault(v any) Parameter {
	p.Default = v
	return p
}

// WithEnum restricts the value to the given set.
func (p Parameter) WithEnum(values ...any) Parameter {
	p.Enum = values
	return p
}

// WithRange sets inclusive numeric bounds.
func (p Parameter) WithRange(min, max float64) Parameter {
	p.Minimum = &min
	p.Maximum = &max
	return p
}

// WithMinimum sets the inclusive lower bound.
func (p Parameter) WithMinimum(min float64) Parameter {
	p.Minimum = &min
	return p
}

// WithMaximum sets the inclusive upper bound.
func (p Parameter) WithMaximum(max float64) Parameter {
	p.Maximum = &max
	return p
}

// WithMaxLength caps the string length in characters.
func (p Parameter) WithMaxLength(n int) Parameter {
	p.MaxLength = &n
	return p
}

// WithMinLength sets the minimum string length in characters.
func (p Parameter) WithMinLength(n int) Parameter {
	p.MinLength = &n
	return p
}
