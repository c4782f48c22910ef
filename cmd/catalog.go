package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arcanaland/cardtags/internal/catalog"
	"github.com/arcanaland/cardtags/internal/config"
	"github.com/arcanaland/cardtags/internal/library"
)

// catalogCmd represents the catalog command group
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage catalogs in your catalog library",
	Long: `Commands for managing the catalogs in your catalog library
(XDG_DATA_HOME/cardtags/catalogs) and the default catalog.`,
}

var catalogListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List catalogs in your catalog library",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		libraryPath := config.GetCatalogLibraryPath()
		out := cmd.OutOrStdout()

		if _, err := os.Stat(libraryPath); os.IsNotExist(err) {
			fmt.Fprintf(out, "Catalog library at %s does not exist.\n", libraryPath)
			fmt.Fprintln(out, "Run 'cardtags catalog init' to create it.")
			return nil
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		entries, err := library.List(libraryPath)
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Fprintln(out, "No catalogs found in your catalog library.")
			fmt.Fprintln(out, "Add one with 'cardtags catalog add' or copy .json files to:", libraryPath)
			return nil
		}

		for _, e := range entries {
			marker := "  "
			suffix := ""
			if e.Name == cfg.DefaultCatalog {
				marker = "* "
				suffix = " [DEFAULT]"
			}
			fmt.Fprintf(out, "%s%s (%s)%s\n", marker, e.Name, e.Title, suffix)
			if e.Description != "" {
				fmt.Fprintf(out, "    %s\n", e.Description)
			}
		}
		return nil
	},
}

var catalogAddCmd = &cobra.Command{
	Use:   "add [name] [source]",
	Short: "Copy a catalog file or URL into your catalog library",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, source := args[0], args[1]
		if err := library.ValidateName(name); err != nil {
			return err
		}
		if !catalog.IsRemote(source) {
			abs, err := filepath.Abs(source)
			if err != nil {
				return err
			}
			source = abs
		}

		s, err := newSession(cmd, "catalog")
		if err != nil {
			return err
		}
		defer s.logger.Sync()

		// loading validates the records and drops the ones that cannot be shown
		cat, err := s.loader().Load(cmd.Context(), source)
		if err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
		// image paths relative to the source would break once the file moves
		data, err := cat.WithResolvedImages().MarshalJSON()
		if err != nil {
			return err
		}

		libraryPath := config.GetCatalogLibraryPath()
		if err := os.MkdirAll(libraryPath, 0755); err != nil {
			return fmt.Errorf("error creating catalog library: %w", err)
		}
		if err := os.WriteFile(filepath.Join(libraryPath, name+".json"), data, 0644); err != nil {
			return fmt.Errorf("error writing catalog: %w", err)
		}

		var meta library.Meta
		meta.Catalog.Title, _ = cmd.Flags().GetString("title")
		meta.Catalog.Description, _ = cmd.Flags().GetString("description")
		meta.Catalog.Source = source
		if err := library.WriteMeta(libraryPath, name, meta); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Added catalog %s with %d cards", name, cat.Len())
		if skipped := len(cat.SkippedKeys()); skipped > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), " (%d records skipped)", skipped)
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	},
}

var catalogSetDefaultCmd = &cobra.Command{
	Use:   "set-default [catalog]",
	Short: "Set the default catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		if _, err := config.ResolveCatalog(name); err != nil {
			return err
		}

		if err := config.SetDefaultCatalog(name); err != nil {
			return fmt.Errorf("error setting default catalog: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Default catalog set to: %s\n", name)
		return nil
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show which catalog commands will load",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd, "catalog")
		if err != nil {
			return err
		}
		defer s.logger.Sync()

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Config file:   ", config.GetConfigFilePath())
		fmt.Fprintln(out, "Catalog:       ", s.cfg.DefaultCatalog)
		fmt.Fprintln(out, "Resolves to:   ", s.source)
		fmt.Fprintln(out, "Fold tag case: ", s.matcher.FoldTagCase)
		fmt.Fprintln(out, "Fetch timeout: ", s.cfg.FetchTimeout)
		return nil
	},
}

var catalogInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the catalog library",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		libraryPath := config.GetCatalogLibraryPath()
		out := cmd.OutOrStdout()

		if err := os.MkdirAll(libraryPath, 0755); err != nil {
			return fmt.Errorf("error creating catalog library: %w", err)
		}

		fmt.Fprintln(out, "Catalog library initialized at:", libraryPath)
		fmt.Fprintln(out, "You can now add catalogs by copying .json files to this directory.")

		if _, err := config.LoadConfig(); err != nil {
			return fmt.Errorf("error initializing config: %w", err)
		}

		fmt.Fprintln(out, "Config file initialized at:", config.GetConfigFilePath())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogAddCmd)
	catalogCmd.AddCommand(catalogSetDefaultCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogInitCmd)

	catalogAddCmd.Flags().String("title", "", "Display title for the catalog")
	catalogAddCmd.Flags().String("description", "", "Short description of the catalog")
}
