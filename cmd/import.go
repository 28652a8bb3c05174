package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// NewCmdImport creates the import command.
func NewCmdImport(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "import [catalog-file]",
		Short: "Import a problem catalog into the database",
		Long: `Loads problems and study lists from a JSON or YAML catalog and
upserts them. Without an argument the configured catalog.path is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			path := cfg.Catalog.Path
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return errors.New("no catalog file given. Pass one as an argument or set catalog.path")
			}

			a, err := newApp(cfg, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			catalog, err := a.importCatalog(cmd.Context(), path)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d problems and %d study lists from %s.\n",
				len(catalog.Questions), len(catalog.StudyLists), path)
			return nil
		},
	}
}
