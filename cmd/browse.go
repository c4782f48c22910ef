package cmd

import (
	"context"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arcanaland/cardtags/internal/ansiart"
	"github.com/arcanaland/cardtags/internal/browse"
	"github.com/arcanaland/cardtags/internal/catalog"
	"github.com/arcanaland/cardtags/internal/config"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the interactive card gallery",
	Long: `Browse opens a full-screen gallery with a live search field. Type to filter,
scroll with the arrow keys or the mouse wheel, and rest the pointer on a card
to see a preview of its artwork. Press Esc or Ctrl+C to quit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd, "browse")
		if err != nil {
			return err
		}
		// the gallery owns the terminal, so stderr logging stays off
		s.logger = zap.NewNop()

		noArt, _ := cmd.Flags().GetBool("no-art")

		var renderer *ansiart.Renderer
		if !noArt {
			timeout, _ := s.cfg.Timeout()
			renderer = ansiart.NewRenderer(config.GetCacheDir(), &http.Client{Timeout: timeout}, s.logger)
		}

		return browse.Run(browse.Options{
			Load: func(ctx context.Context) (*catalog.Catalog, error) {
				return s.load(ctx)
			},
			Renderer: renderer,
			Matcher:  s.matcher,
			Logger:   s.logger,
		})
	},
}

func init() {
	RootCmd.AddCommand(browseCmd)

	browseCmd.Flags().Bool("no-art", false, "Show card names instead of rendered previews")
}
