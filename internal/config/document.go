package config

// Document represents the top-level structure of a declaration YAML file.
type Document struct {
	SchemaVersion string              `yaml:"schemaVersion"`
	Methods       []MethodDeclaration `yaml:"methods"`

	// FilePath is an internal field for storing the source file path for
	// context in error messages. It is not parsed from the YAML.
	FilePath string `yaml:"-"`
}

// MethodDeclaration is the YAML form of a method declaration.
type MethodDeclaration struct {
	Type       string          `yaml:"type"`
	Method     string          `yaml:"method"`
	Config     *LogConfigSpec  `yaml:"config,omitempty"`
	Parameters []ParameterSpec `yaml:"parameters,omitempty"`
}

// LogConfigSpec holds the optional flags of a declaration. Unset flags take
// their default value when resolved.
type LogConfigSpec struct {
	Enabled       *bool `yaml:"enabled,omitempty"`
	LogParameters *bool `yaml:"log_parameters,omitempty"`
	LogResult     *bool `yaml:"log_result,omitempty"`
	LogError      *bool `yaml:"log_error,omitempty"`
}

// ParameterSpec is the YAML form of a parameter descriptor.
type ParameterSpec struct {
	Name string `yaml:"name"`
	Log  bool   `yaml:"log,omitempty"`
}

// Resolve applies defaults to unset flags. A nil spec resolves to the defaults.
func (s *LogConfigSpec) Resolve() LogConfig {
	cfg := DefaultLogConfig()
	if s == nil {
		return cfg
	}
	if s.Enabled != nil {
		cfg.Enabled = *s.Enabled
	}
	if s.LogParameters != nil {
		cfg.LogParameters = *s.LogParameters
	}
	if s.LogResult != nil {
		cfg.LogResult = *s.LogResult
	}
	if s.LogError != nil {
		cfg.LogError = *s.LogError
	}
	return cfg
}

// parameters converts the YAML parameter list into descriptors.
func (d *MethodDeclaration) parameters() []Parameter {
	params := make([]Parameter, len(d.Parameters))
	for i, p := range d.Parameters {
		params[i] = Parameter{Name: p.Name, Marked: p.Log}
	}
	return params
}
