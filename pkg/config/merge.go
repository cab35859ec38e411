package config

import (
	"fmt"

	"dario.cat/mergo"
)

// ApplyExtensionDefaults fills the zero-valued parts of ExtendedFields from
// defaults. Values that came from the document are kept. X must be a struct
// or a map.
func (s *Settings[X]) ApplyExtensionDefaults(defaults X) error {
	if err := mergo.Merge(&s.ExtendedFields, defaults); err != nil {
		return fmt.Errorf("config: merging extension defaults: %w", err)
	}
	return nil
}
