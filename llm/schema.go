// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package llm

// Schema types, spelled the way Gemini's OpenAPI subset expects them.
const (
	TypeObject = "OBJECT"
	TypeString = "STRING"
	TypeNumber = "NUMBER"
	TypeArray  = "ARRAY"
)

// MIMEJSON requests JSON output.
const MIMEJSON = "application/json"

// Schema is the response schema for structured output.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}
