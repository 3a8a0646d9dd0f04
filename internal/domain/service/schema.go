package service

// SchemaType is the JSON type of a schema node.
type SchemaType string

const (
	SchemaTypeObject  SchemaType = "object"
	SchemaTypeArray   SchemaType = "array"
	SchemaTypeString  SchemaType = "string"
	SchemaTypeNumber  SchemaType = "number"
	SchemaTypeInteger SchemaType = "integer"
	SchemaTypeBoolean SchemaType = "boolean"
)

// ResponseSchema is a provider-neutral description of the structured output a caller
// expects. Backends translate it into their own schema dialect. It marshals as a
// JSON Schema document.
type ResponseSchema struct {
	Type        SchemaType                 `json:"type"`
	Description string                     `json:"description,omitempty"`
	Properties  map[string]*ResponseSchema `json:"properties,omitempty"`
	// PropertyOrdering fixes the order properties are presented in prompts and schemas.
	PropertyOrdering []string        `json:"-"`
	Items            *ResponseSchema `json:"items,omitempty"`
	Required         []string        `json:"required,omitempty"`
	Minimum          *float64        `json:"minimum,omitempty"`
	Maximum          *float64        `json:"maximum,omitempty"`
}

// OrderedProperties returns property names in PropertyOrdering order, followed by any
// properties the ordering does not mention.
func (s *ResponseSchema) OrderedProperties() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.Properties))
	seen := make(map[string]struct{}, len(s.Properties))
	for _, name := range s.PropertyOrdering {
		if _, ok := s.Properties[name]; ok {
			out = append(out, name)
			seen[name] = struct{}{}
		}
	}
	for name := range s.Properties {
		if _, ok := seen[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}

// BoundedNumber is a number schema constrained to [min, max].
func BoundedNumber(description string, min, max float64) *ResponseSchema {
	return &ResponseSchema{
		Type:        SchemaTypeNumber,
		Description: description,
		Minimum:     &min,
		Maximum:     &max,
	}
}

// StringSchema is a plain string schema.
func StringSchema(description string) *ResponseSchema {
	return &ResponseSchema{Type: SchemaTypeString, Description: description}
}

// ArrayOf is an array schema whose elements follow items.
func ArrayOf(description string, items *ResponseSchema) *ResponseSchema {
	return &ResponseSchema{Type: SchemaTypeArray, Description: description, Items: items}
}
