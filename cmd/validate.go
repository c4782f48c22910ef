package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arcanaland/cardtags/internal/config"
	"github.com/arcanaland/cardtags/internal/validator"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [source]",
	Short: "Validate a card catalog",
	Long: `Validate checks that a catalog is a JSON object of card records.
Records without a name or that are not objects are errors and would be skipped
when loading; missing images, unknown color letters, empty tags and duplicate
names are reported as warnings.

Without a source the configured catalog is validated.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd, "validate")
		if err != nil {
			return err
		}
		defer s.logger.Sync()

		source := s.source
		if len(args) == 1 {
			if source, err = config.ResolveCatalog(args[0]); err != nil {
				return err
			}
		}

		entries, err := s.loader().ReadEntries(cmd.Context(), source)
		if err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}

		results := validator.NewValidator(entries).Validate()

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Validation Results:")
		fmt.Fprintln(out, "-------------------")

		if results.OK() {
			fmt.Fprintf(out, "✅ Catalog '%s' is valid (%d records).\n", source, len(entries))
		} else {
			fmt.Fprintf(out, "❌ Catalog '%s' has %d validation errors:\n", source, len(results.Errors))
			for i, e := range results.Errors {
				fmt.Fprintf(out, "%d. %s\n", i+1, e)
			}
		}

		if len(results.Warnings) > 0 {
			fmt.Fprintln(out, "\nWarnings:")
			for i, warn := range results.Warnings {
				fmt.Fprintf(out, "%d. %s\n", i+1, warn)
			}
		}

		if !results.OK() {
			return fmt.Errorf("validation failed")
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(validateCmd)
}
