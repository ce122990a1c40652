package migrate

import (
	internalconfig "github.com/smykla-skalski/uploadkit/internal/config"
	"github.com/smykla-skalski/uploadkit/pkg/config"
	"github.com/smykla-skalski/uploadkit/pkg/logger"
)

// Default returns a Migrator with the built-in schema migrations.
func Default(log logger.Logger) *Migrator {
	return New(log).
		MustRegister(Migration{
			Version:     "1.1.0",
			Description: "Add accessibility section",
			Migrate:     addSection(config.SectionAccessibility),
		}).
		MustRegister(Migration{
			Version:     "1.2.0",
			Description: "Add animations section",
			Migrate:     addSection(config.SectionAnimations),
		})
}

// addSection fills in a section from the defaults without overriding keys
// the document already sets.
func addSection(name string) Func {
	return func(cfg map[string]any) (map[string]any, error) {
		existing, _ := cfg[name].(map[string]any)
		cfg[name] = internalconfig.DeepMerge(internalconfig.DefaultSection(name), existing)

		return cfg, nil
	}
}
