package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/uploadkit/internal/export"
	"github.com/smykla-skalski/uploadkit/internal/migrate"
	"github.com/smykla-skalski/uploadkit/internal/report"
)

var (
	migrateTo     string
	migrateFrom   string
	migrateOutput string
	migrateList   bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [source]",
	Short: "Upgrade a configuration to a newer schema version",
	Long: `Upgrade a configuration document to a newer schema version.

The starting version is read from the document's "version" key, or 1.0.0
when it has none. The result is printed as JSON.

Examples:
  uploadkit migrate old.json
  uploadkit migrate old.toml --to 1.1.0 --output upload.json
  uploadkit migrate --list`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "Target version (default: latest)")
	migrateCmd.Flags().StringVar(&migrateFrom, "from", "", "Override the document's version")
	migrateCmd.Flags().StringVarP(&migrateOutput, "output", "o", "", "Write to file instead of stdout")
	migrateCmd.Flags().BoolVar(&migrateList, "list", false, "List the available migrations")

	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	m := migrate.Default(log)
	out := cmd.OutOrStdout()

	if migrateList {
		for _, migration := range m.Migrations() {
			fmt.Fprintf(out, "%-8s %s\n", migration.Version, migration.Description)
		}

		return nil
	}

	if len(args) == 0 {
		return errors.New("a source is required unless --list is set")
	}

	l, err := newLoader()
	if err != nil {
		return err
	}

	document, err := l.ReadFragment(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if migrateFrom != "" {
		document["version"] = migrateFrom
	}

	result, err := runMigrations(m, document)
	if err != nil {
		return err
	}

	if len(result.Applied) == 0 {
		fmt.Fprintln(os.Stderr, theme.Muted.Render("Already up to date"))
	} else {
		fmt.Fprintln(os.Stderr, theme.Valid.Render(
			report.IconOK+" Applied "+strings.Join(result.Applied, ", ")))
	}

	data, err := json.MarshalIndent(result.Config, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode migrated configuration")
	}

	if migrateOutput != "" {
		if err := os.WriteFile(migrateOutput, append(data, '\n'), export.FileMode); err != nil {
			return errors.Wrapf(err, "failed to write file %s", migrateOutput)
		}

		fmt.Fprintf(out, "Configuration written to %s\n", migrateOutput)

		return nil
	}

	fmt.Fprintln(out, string(data))

	return nil
}

func runMigrations(m *migrate.Migrator, document map[string]any) (migrate.Result, error) {
	if migrateTo == "" {
		return m.MigrateToLatest(document)
	}

	from := migrate.BaseVersion
	if v, ok := document["version"].(string); ok && v != "" {
		from = v
	}

	result, err := m.Migrate(document, from, migrateTo)
	if err != nil {
		return result, err
	}

	if len(result.Applied) > 0 {
		result.Config["version"] = result.Applied[len(result.Applied)-1]
	}

	return result, nil
}
