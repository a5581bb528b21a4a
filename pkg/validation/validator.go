// Package validation checks persisted scene documents before they are handed
// to the deserializer: structural constraints via struct tags, plus naming
// rules the tag language cannot express.
package validation

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/dd0wney/scenegraph/pkg/scene"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Validation constants
	MaxNameLength   = 100
	MaxPortsPerSide = 256
	MaxNestingDepth = 64

	// Node and port names: letter or underscore first, then alphanumeric,
	// underscore or dash. The trailing digits of generated unique names
	// ("item1", "item2") fit this pattern.
	namePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_\-]*$`)
)

func init() {
	validate = validator.New()
}

// ValidateDocument validates a whole scene document.
func ValidateDocument(doc *scene.Document) error {
	if doc == nil {
		return errors.New("document cannot be nil")
	}

	// Validate using struct tags
	if err := validate.Struct(doc); err != nil {
		return formatValidationError(err)
	}

	seen := make(map[string]bool)
	for _, payload := range doc.Nodes {
		if err := validateNodePayload(payload, seen, 1); err != nil {
			return err
		}
	}

	for i, conn := range doc.Connections {
		if err := ValidateConnection(conn, seen); err != nil {
			return fmt.Errorf("connections[%d]: %w", i, err)
		}
	}

	return nil
}

// validateNodePayload checks one payload and its children.
func validateNodePayload(payload *scene.NodePayload, seen map[string]bool, depth int) error {
	if payload == nil {
		return errors.New("node payload cannot be nil")
	}
	if depth > MaxNestingDepth {
		return fmt.Errorf("node '%s' exceeds maximum nesting depth of %d", payload.Name, MaxNestingDepth)
	}

	if err := ValidateName(payload.Name); err != nil {
		return fmt.Errorf("node name: %w", err)
	}
	if seen[payload.Name] {
		return fmt.Errorf("node name '%s' appears more than once", payload.Name)
	}
	seen[payload.Name] = true

	if err := ValidateName(payload.Type); err != nil {
		return fmt.Errorf("node '%s' type: %w", payload.Name, err)
	}

	if len(payload.Inputs) > MaxPortsPerSide || len(payload.Outputs) > MaxPortsPerSide {
		return fmt.Errorf("node '%s' exceeds maximum of %d ports per direction", payload.Name, MaxPortsPerSide)
	}
	if err := validatePortNames(payload.Name, payload.Inputs); err != nil {
		return err
	}
	if err := validatePortNames(payload.Name, payload.Outputs); err != nil {
		return err
	}

	for _, child := range payload.Children {
		if err := validateNodePayload(child, seen, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func validatePortNames(node string, names []string) error {
	perName := make(map[string]bool, len(names))
	for _, name := range names {
		if err := ValidateName(name); err != nil {
			return fmt.Errorf("node '%s' port: %w", node, err)
		}
		if perName[name] {
			return fmt.Errorf("node '%s' declares port '%s' more than once", node, name)
		}
		perName[name] = true
	}
	return nil
}

// ValidateConnection checks one connection entry against the set of node
// names declared in the document.
func ValidateConnection(conn scene.Connection, nodeNames map[string]bool) error {
	if err := validate.Struct(conn); err != nil {
		return formatValidationError(err)
	}
	if !nodeNames[conn.SourceNode] {
		return fmt.Errorf("source node '%s' is not declared in the document", conn.SourceNode)
	}
	if !nodeNames[conn.TargetNode] {
		return fmt.Errorf("target node '%s' is not declared in the document", conn.TargetNode)
	}
	if conn.SourceNode == conn.TargetNode {
		return fmt.Errorf("connection links node '%s' to itself", conn.SourceNode)
	}
	return nil
}

// ValidateName validates a node, type or port name.
func ValidateName(name string) error {
	if name == "" {
		return errors.New("name cannot be empty")
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("name '%s' exceeds maximum length of %d characters", name, MaxNameLength)
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("name '%s' is invalid (must start with a letter or underscore, followed by alphanumeric, underscore or dash)", name)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	for _, e := range validationErrs {
		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", e.Field())
		case "max":
			return fmt.Errorf("%s: exceeds maximum of %s", e.Field(), e.Param())
		default:
			return fmt.Errorf("%s: failed %s validation", e.Field(), e.Tag())
		}
	}
	return err
}
