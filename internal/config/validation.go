package config

import (
	"fmt"

	loggableerrors "github.com/gxo-labs/loggable/pkg/loggable/v1/errors"
)

// ValidateDocument performs logical validation of a parsed declaration
// document and returns every error found.
func ValidateDocument(doc *Document) []error {
	var errs []error

	if len(doc.Methods) == 0 {
		errs = append(errs, loggableerrors.NewValidationError("declarations must contain at least one entry in 'methods'", nil))
	}

	seen := make(map[string]int, len(doc.Methods))
	for i := range doc.Methods {
		decl := &doc.Methods[i]
		displayName := fmt.Sprintf("method %d", i)
		if decl.Type != "" || decl.Method != "" {
			displayName = fmt.Sprintf("method %d ('%s')", i, MethodKey(decl.Type, decl.Method))
		}

		for _, err := range validateDeclaration(decl.Type, decl.Method, decl.parameters()) {
			errs = append(errs, loggableerrors.NewValidationError(fmt.Sprintf("%s: %s", displayName, unwrapMessage(err)), nil))
		}

		if decl.Type != "" && decl.Method != "" {
			key := MethodKey(decl.Type, decl.Method)
			if prev, dup := seen[key]; dup {
				errs = append(errs, loggableerrors.NewValidationError(fmt.Sprintf("%s: duplicate declaration (first declared as method %d)", displayName, prev), nil))
			} else {
				seen[key] = i
			}
		}
	}

	return errs
}

// unwrapMessage strips the "validation error: " prefix from nested validation errors.
func unwrapMessage(err error) string {
	if vErr, ok := err.(*loggableerrors.ValidationError); ok {
		return vErr.Message
	}
	return err.Error()
}
