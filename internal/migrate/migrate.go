// Package migrate upgrades configuration documents between schema versions.
package migrate

import (
	"slices"

	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"
	"github.com/knadh/koanf/maps"

	"github.com/smykla-skalski/uploadkit/pkg/config"
	"github.com/smykla-skalski/uploadkit/pkg/logger"
)

// BaseVersion is assumed for documents without a version key.
const BaseVersion = "1.0.0"

var (
	// ErrInvalidVersion is returned for versions that are not valid semver.
	ErrInvalidVersion = errors.New("invalid version")

	// ErrDuplicateVersion is returned when a version is registered twice.
	ErrDuplicateVersion = errors.New("migration already registered")

	// ErrMissingFunc is returned when a migration has no function.
	ErrMissingFunc = errors.New("migration has no function")
)

// Func transforms a configuration document. It receives a private copy.
type Func func(cfg map[string]any) (map[string]any, error)

// Migration upgrades a document to Version.
type Migration struct {
	Version     string
	Description string
	Migrate     Func
}

// Result is the outcome of a migration run.
type Result struct {
	Config map[string]any

	// Applied lists the applied versions in order.
	Applied []string
}

type registered struct {
	Migration

	version *semver.Version
}

// Migrator holds migrations ordered by semantic version.
type Migrator struct {
	migrations []registered
	log        logger.Logger
}

// New creates an empty Migrator.
func New(log logger.Logger) *Migrator {
	return &Migrator{log: logger.OrNoOp(log)}
}

// Register adds a migration, keeping the list in ascending version order.
func (m *Migrator) Register(migration Migration) error {
	v, err := parseVersion(migration.Version)
	if err != nil {
		return err
	}

	if migration.Migrate == nil {
		return errors.Wrapf(ErrMissingFunc, "version %s", migration.Version)
	}

	idx, found := slices.BinarySearchFunc(m.migrations, v, func(r registered, target *semver.Version) int {
		return r.version.Compare(target)
	})
	if found {
		return errors.Wrapf(ErrDuplicateVersion, "version %s", migration.Version)
	}

	m.migrations = slices.Insert(m.migrations, idx, registered{Migration: migration, version: v})

	return nil
}

// MustRegister is Register that panics on error.
func (m *Migrator) MustRegister(migration Migration) *Migrator {
	if err := m.Register(migration); err != nil {
		panic(err)
	}

	return m
}

// Versions returns the registered versions in ascending order.
func (m *Migrator) Versions() []string {
	out := make([]string, 0, len(m.migrations))
	for _, r := range m.migrations {
		out = append(out, r.Version)
	}

	return out
}

// Migrations returns the registered migrations in ascending version order.
func (m *Migrator) Migrations() []Migration {
	out := make([]Migration, 0, len(m.migrations))
	for _, r := range m.migrations {
		out = append(out, r.Migration)
	}

	return out
}

// Latest returns the newest version the migrator can reach: the highest
// registered version or config.CurrentVersion, whichever is greater.
func (m *Migrator) Latest() string {
	latest := config.CurrentVersion

	if n := len(m.migrations); n > 0 {
		current := semver.MustParse(config.CurrentVersion)
		if m.migrations[n-1].version.GreaterThan(current) {
			latest = m.migrations[n-1].Version
		}
	}

	return latest
}

// Migrate applies every migration with from < version <= to in ascending
// order, feeding each output into the next. The input is not modified.
func (m *Migrator) Migrate(cfg map[string]any, from, to string) (Result, error) {
	fromVer, err := parseVersion(from)
	if err != nil {
		return Result{}, err
	}

	toVer, err := parseVersion(to)
	if err != nil {
		return Result{}, err
	}

	current := maps.Copy(cfg)
	if current == nil {
		current = map[string]any{}
	}

	applied := []string{}

	for _, r := range m.migrations {
		if !r.version.GreaterThan(fromVer) || r.version.GreaterThan(toVer) {
			continue
		}

		m.log.Debug("applying migration", "version", r.Version, "description", r.Description)

		next, err := r.Migrate(maps.Copy(current))
		if err != nil {
			return Result{Config: current, Applied: applied},
				errors.Wrapf(err, "migration %s failed", r.Version)
		}

		if next == nil {
			next = map[string]any{}
		}

		current = next
		applied = append(applied, r.Version)
	}

	return Result{Config: current, Applied: applied}, nil
}

// MigrateToLatest migrates from the document's own version, or BaseVersion
// when it has none, to Latest and stamps the result with that version.
func (m *Migrator) MigrateToLatest(cfg map[string]any) (Result, error) {
	from := BaseVersion

	if v, ok := cfg["version"].(string); ok && v != "" {
		from = v
	}

	to := m.Latest()

	result, err := m.Migrate(cfg, from, to)
	if err != nil {
		return result, err
	}

	if fromVer, _ := parseVersion(from); fromVer.LessThan(semver.MustParse(to)) {
		result.Config["version"] = to
	}

	return result, nil
}

func parseVersion(version string) (*semver.Version, error) {
	v, err := semver.StrictNewVersion(version)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidVersion, "%q: %v", version, err)
	}

	return v, nil
}
