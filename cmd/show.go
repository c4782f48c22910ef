package cmd

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arcanaland/cardtags/internal/ansiart"
	"github.com/arcanaland/cardtags/internal/card"
	"github.com/arcanaland/cardtags/internal/colors"
	"github.com/arcanaland/cardtags/internal/config"
	"github.com/arcanaland/cardtags/internal/tags"
)

var showCmd = &cobra.Command{
	Use:   "show [card_name]",
	Short: "Display a card with ANSI art of its image",
	Long: `Show displays a card's colors, caption and tag groups next to an ANSI
rendition of its artwork. The name is matched ignoring case; the first card
with that name wins.

Rendered art is cached under XDG_CACHE_HOME/cardtags/ansi_cache.

Examples:
  cardtags show "Serra Angel"
  cardtags show --catalog ./resources/card_tags_merged.json "Shivan Dragon"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		width, _ := cmd.Flags().GetInt("width")
		if width < 1 {
			return fmt.Errorf("invalid --width %d: must be at least 1", width)
		}

		s, err := newSession(cmd, "show")
		if err != nil {
			return err
		}
		defer s.logger.Sync()

		cat, err := s.load(cmd.Context())
		if err != nil {
			return err
		}

		name := strings.Join(args, " ")
		c, ok := cat.Find(name)
		if !ok {
			return fmt.Errorf("card not found: %s", name)
		}

		noArt, _ := cmd.Flags().GetBool("no-art")

		var art string
		if !noArt {
			timeout, _ := s.cfg.Timeout()
			renderer := ansiart.NewRenderer(config.GetCacheDir(), &http.Client{Timeout: timeout}, s.logger)
			art, err = renderer.Render(cmd.Context(), cat.ResolveImage(c.ImageURL), width, max(width*4/5, 1))
			if err != nil {
				s.logger.Warn("no art for card", zap.String("card", c.Name), zap.Error(err))
				art = ""
			}
		}

		displayCard(cmd.OutOrStdout(), c, art, cat.Source, terminalWidth())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(showCmd)

	showCmd.Flags().Bool("no-art", false, "Skip rendering the card image")
	showCmd.Flags().IntP("width", "w", 40, "Width of the rendered art in columns")
}

// displayCard prints the art on the left and the card info on the right
func displayCard(w io.Writer, c card.Card, ansiArt, source string, width int) {
	var ansiLines []string
	if ansiArt != "" {
		ansiLines = strings.Split(strings.TrimSuffix(ansiArt, "\n"), "\n")
	}
	maxAnsiWidth := 0
	for _, line := range ansiLines {
		if visible := len([]rune(ansiart.StripAnsi(line))); visible > maxAnsiWidth {
			maxAnsiWidth = visible
		}
	}

	spacing := 4
	infoStartCol := 0
	if maxAnsiWidth > 0 {
		infoStartCol = maxAnsiWidth + spacing
	}

	infoWidth := width - infoStartCol - 2
	if infoWidth < 20 {
		infoWidth = 20
	}

	var infoLines []string
	infoLines = append(infoLines, colorize.CyanString("Card:    ")+colorize.HiWhiteString("%s", c.Name))
	infoLines = append(infoLines, colorize.CyanString("Catalog: ")+colorize.HiWhiteString("%s", source))

	if names := colors.Names(c.Colors); len(names) > 0 {
		infoLines = append(infoLines, colorize.CyanString("Colors:  ")+
			colorize.HiWhiteString("%s · %s", strings.Join(names, ", "), string(c.Colors)))
	} else {
		infoLines = append(infoLines, colorize.CyanString("Colors:  ")+colorize.HiBlackString("none"))
	}

	if c.Caption != "" {
		infoLines = append(infoLines, "", colorize.CyanString("Caption:"))
		infoLines = append(infoLines, wrapText(c.Caption, infoWidth)...)
	}

	for _, group := range tags.Groups(c) {
		infoLines = append(infoLines, "", colorize.CyanString("%s:", group.Title))
		infoLines = append(infoLines, wrapText(strings.Join(group.Labels(), ", "), infoWidth)...)
	}

	if !c.HasTags() {
		infoLines = append(infoLines, "", colorize.HiBlackString("No tags"))
	}

	fmt.Fprintln(w)

	rows := max(len(ansiLines), len(infoLines))
	for i := 0; i < rows; i++ {
		fmt.Fprint(w, "  ")
		if i < len(ansiLines) {
			fmt.Fprint(w, ansiLines[i])
			visible := len([]rune(ansiart.StripAnsi(ansiLines[i])))
			fmt.Fprint(w, strings.Repeat(" ", infoStartCol-visible))
		} else {
			fmt.Fprint(w, strings.Repeat(" ", infoStartCol))
		}

		if i < len(infoLines) {
			fmt.Fprint(w, infoLines[i])
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w)
}
