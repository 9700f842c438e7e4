package tools

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	internalerrors "github.com/skai-it/trello-mcp-server/internal/errors"
)

// maxNameLength is the Trello limit on board, list, and card names.
const maxNameLength = 16384

// paramType enumerates the JSON types a tool parameter accepts.
type paramType string

const (
	typeString paramType = "string"
	typeBool   paramType = "boolean"
	typeInt    paramType = "integer"
	typeObject paramType = "object"

	// typeStringArray is an array of strings (label IDs, member IDs).
	typeStringArray paramType = "string_array"

	// typePosition accepts a string or a number, normalized to a string.
	// Trello positions are "top", "bottom", or a numeric value.
	typePosition paramType = "position"
)

// paramSpec declares one tool parameter: its JSON type, whether it is
// required, and value constraints. The JSON Schema in tools/list and the
// argument validation are both generated from it.
type paramSpec struct {
	name        string
	typ         paramType
	description string
	required    bool

	// maxLength bounds string values; 0 means unbounded.
	maxLength int

	// minInt/maxInt bound integer values when bounded is true.
	bounded        bool
	minInt, maxInt int

	// properties holds a raw sub-schema for object parameters.
	properties map[string]any

	// defaultVal is advertised in the schema; absent arguments keep it.
	defaultVal any
}

// credentialParams are accepted by every tool so a caller can pass an
// explicit pair instead of relying on the session cache or the prompt.
var credentialParams = []paramSpec{
	{name: "api_key", typ: typeString, description: "Trello API key (optional, will prompt if not provided)"},
	{name: "token", typ: typeString, description: "Trello API token (optional, will prompt if not provided)"},
}

// schemaFor builds the JSON Schema object for a tool from its parameter
// table. Credential parameters are prepended for every tool.
func schemaFor(params []paramSpec, oneOf []string) map[string]any {
	properties := make(map[string]any)
	required := []string{}

	all := make([]paramSpec, 0, len(credentialParams)+len(params))
	all = append(all, credentialParams...)
	all = append(all, params...)

	for _, p := range all {
		properties[p.name] = p.schema()
		if p.required {
			required = append(required, p.name)
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}

	if len(oneOf) > 0 {
		alternatives := make([]any, 0, len(oneOf))
		for _, name := range oneOf {
			alternatives = append(alternatives, map[string]any{"required": []string{name}})
		}
		schema["oneOf"] = alternatives
	}

	return schema
}

// schema renders one parameter as a JSON Schema fragment.
func (p paramSpec) schema() map[string]any {
	s := map[string]any{"description": p.description}

	switch p.typ {
	case typeString:
		s["type"] = "string"
	case typeBool:
		s["type"] = "boolean"
	case typeInt:
		s["type"] = "integer"
	case typeObject:
		s["type"] = "object"
		if p.properties != nil {
			s["properties"] = p.properties
		}
	case typeStringArray:
		s["type"] = "array"
		s["items"] = map[string]any{"type": "string"}
	case typePosition:
		s["type"] = []string{"string", "number"}
	}

	if p.defaultVal != nil {
		s["default"] = p.defaultVal
	}
	return s
}

// validateArgs checks every provided argument against the parameter table
// and reports missing required parameters. Returns ErrBadRequest with the
// first problem found; no network call happens on a validation failure.
func validateArgs(toolName string, params []paramSpec, args map[string]any) error {
	all := make([]paramSpec, 0, len(credentialParams)+len(params))
	all = append(all, credentialParams...)
	all = append(all, params...)

	for _, p := range all {
		value, present := args[p.name]

		if !present || value == nil {
			if p.required {
				return badArgs(toolName, fmt.Sprintf("missing required parameter: %s", p.name))
			}
			continue
		}

		if err := p.check(value); err != nil {
			return badArgs(toolName, fmt.Sprintf("invalid parameter %s: %v", p.name, err))
		}
	}

	return nil
}

// check validates one argument value against the spec.
func (p paramSpec) check(value any) error {
	switch p.typ {
	case typeString:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string")
		}
		trimmed := strings.TrimSpace(s)
		if p.required && trimmed == "" {
			return fmt.Errorf("cannot be empty")
		}
		if p.maxLength > 0 && len(trimmed) > p.maxLength {
			return fmt.Errorf("cannot exceed %d characters", p.maxLength)
		}
	case typeBool:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("expected boolean")
		}
	case typeInt:
		f, ok := value.(float64)
		if !ok {
			return fmt.Errorf("expected integer")
		}
		if f != float64(int(f)) {
			return fmt.Errorf("expected integer")
		}
		if p.bounded {
			n := int(f)
			if n < p.minInt || n > p.maxInt {
				return fmt.Errorf("must be between %d and %d", p.minInt, p.maxInt)
			}
		}
	case typeObject:
		if _, ok := value.(map[string]any); !ok {
			return fmt.Errorf("expected object")
		}
	case typeStringArray:
		items, ok := value.([]any)
		if !ok {
			return fmt.Errorf("expected array of strings")
		}
		for _, item := range items {
			if _, ok := item.(string); !ok {
				return fmt.Errorf("expected array of strings")
			}
		}
	case typePosition:
		switch value.(type) {
		case string, float64:
		default:
			return fmt.Errorf("expected string or number")
		}
	}
	return nil
}

// badArgs builds the validation failure for a tool call.
func badArgs(toolName, detail string) error {
	return internalerrors.New("tools", toolName, internalerrors.ErrBadRequest,
		fmt.Errorf("%s", detail))
}

// Argument extraction helpers. Validation has already run, so type
// mismatches here only occur for optional parameters that were absent.

func stringArg(args map[string]any, name string) string {
	s, _ := args[name].(string)
	return strings.TrimSpace(s)
}

func stringPtrArg(args map[string]any, name string) *string {
	value, present := args[name]
	if !present || value == nil {
		return nil
	}
	s, ok := value.(string)
	if !ok {
		return nil
	}
	trimmed := strings.TrimSpace(s)
	return &trimmed
}

func boolArg(args map[string]any, name string, fallback bool) bool {
	b, ok := args[name].(bool)
	if !ok {
		return fallback
	}
	return b
}

func boolPtrArg(args map[string]any, name string) *bool {
	b, ok := args[name].(bool)
	if !ok {
		return nil
	}
	return &b
}

func intArg(args map[string]any, name string, fallback int) int {
	f, ok := args[name].(float64)
	if !ok {
		return fallback
	}
	return int(f)
}

func stringSliceArg(args map[string]any, name string) []string {
	items, ok := args[name].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func objectArg(args map[string]any, name string) map[string]any {
	m, _ := args[name].(map[string]any)
	return m
}

// positionArg normalizes a string-or-number position to a string.
func positionArg(args map[string]any, name string) string {
	switch v := args[name].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// positionPtrArg is positionArg for update semantics: nil when absent.
func positionPtrArg(args map[string]any, name string) *string {
	if _, present := args[name]; !present {
		return nil
	}
	s := positionArg(args, name)
	if s == "" {
		return nil
	}
	return &s
}

// dueArg parses an RFC 3339 due date. present reports whether the key was
// supplied at all; a supplied null or empty string clears the due date.
func dueArg(toolName string, args map[string]any) (due *time.Time, present bool, err error) {
	value, ok := args["due"]
	if !ok {
		return nil, false, nil
	}
	if value == nil {
		return nil, true, nil
	}

	s, ok := value.(string)
	if !ok {
		return nil, true, badArgs(toolName, "invalid parameter due: expected string")
	}
	if strings.TrimSpace(s) == "" {
		return nil, true, nil
	}

	t, parseErr := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if parseErr != nil {
		return nil, true, badArgs(toolName,
			"invalid due date format, use ISO format (e.g. 2024-01-01T12:00:00Z)")
	}
	return &t, true, nil
}
