package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	loggableerrors "github.com/gxo-labs/loggable/pkg/loggable/v1/errors"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// SupportedSchemaVersionConstraint is the major schema version accepted by this build.
const SupportedSchemaVersionConstraint = "v1"

// LoadDeclarations reads declaration YAML bytes, validates them against the
// embedded JSON schema, checks schema version compatibility, performs logical
// validation and builds the method declarations.
func LoadDeclarations(documentYAML []byte, filePathHint string) ([]*Method, error) {
	if len(documentYAML) == 0 {
		return nil, loggableerrors.NewConfigError("declaration content cannot be empty", nil)
	}

	if err := ValidateWithSchema(documentYAML); err != nil {
		return nil, loggableerrors.NewConfigError(fmt.Sprintf("declarations '%s' failed schema validation", filePathHint), err)
	}

	var doc Document
	if err := yamlUnmarshalStrict(documentYAML, &doc); err != nil {
		return nil, loggableerrors.NewConfigError(fmt.Sprintf("failed to parse declarations YAML '%s'", filePathHint), err)
	}
	doc.FilePath = filePathHint

	if doc.SchemaVersion == "" {
		return nil, loggableerrors.NewValidationError(fmt.Sprintf("declarations '%s' are missing required 'schemaVersion' field", filePathHint), nil)
	}
	docSemVer := doc.SchemaVersion
	if !strings.HasPrefix(docSemVer, "v") {
		docSemVer = "v" + docSemVer
	}
	if !semver.IsValid(docSemVer) {
		return nil, loggableerrors.NewValidationError(fmt.Sprintf("declarations '%s' have invalid 'schemaVersion' format: '%s'", filePathHint, doc.SchemaVersion), nil)
	}
	if semver.Major(docSemVer) != SupportedSchemaVersionConstraint {
		return nil, loggableerrors.NewValidationError(
			fmt.Sprintf("declarations '%s' schemaVersion '%s' is not compatible with requirement '%s'",
				filePathHint, doc.SchemaVersion, SupportedSchemaVersionConstraint),
			nil,
		)
	}

	validationErrs := ValidateDocument(&doc)
	if len(validationErrs) > 0 {
		var errorMessages []string
		for _, vErr := range validationErrs {
			errorMessages = append(errorMessages, vErr.Error())
		}
		combinedMessage := fmt.Sprintf("declarations '%s' have %d validation error(s):\n- %s",
			filePathHint, len(errorMessages), strings.Join(errorMessages, "\n- "))
		return nil, loggableerrors.NewValidationError(combinedMessage, validationErrs[0])
	}

	methods := make([]*Method, 0, len(doc.Methods))
	for i := range doc.Methods {
		decl := &doc.Methods[i]
		m, err := Declare(decl.Type, decl.Method, decl.Config.Resolve(), decl.parameters()...)
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, nil
}

// LoadDeclarationsFromFile is a convenience function to read declarations from disk.
func LoadDeclarationsFromFile(filePath string) ([]*Method, error) {
	if filePath == "" {
		return nil, loggableerrors.NewConfigError("declaration file path cannot be empty", nil)
	}
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, loggableerrors.NewConfigError(fmt.Sprintf("failed to get absolute path for '%s'", filePath), err)
	}
	yamlFile, err := os.ReadFile(absPath)
	if err != nil {
		return nil, loggableerrors.NewConfigError(fmt.Sprintf("failed to read declaration file '%s'", absPath), err)
	}
	return LoadDeclarations(yamlFile, absPath)
}

// yamlUnmarshalStrict decodes YAML, rejecting fields the target struct does not define.
func yamlUnmarshalStrict(in []byte, out interface{}) error {
	decoder := yaml.NewDecoder(strings.NewReader(string(in)))
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("YAML parsing error: %w", err)
	}
	return nil
}
