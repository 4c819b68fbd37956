package tuning

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Default returns the built-in tuning values. It panics only if the embedded
// file is broken, which a test guards against.
func Default() Spec {
	spec, err := parseDefaults()
	if err != nil {
		panic(err)
	}
	return spec
}

func parseDefaults() (Spec, error) {
	var spec Spec
	if err := yaml.Unmarshal(defaultsYAML, &spec); err != nil {
		return Spec{}, fmt.Errorf("tuning: unmarshal embedded defaults: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return Spec{}, fmt.Errorf("tuning: embedded defaults: %w", err)
	}
	return spec, nil
}
