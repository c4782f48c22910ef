package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/cardtags/internal/card"
	"github.com/arcanaland/cardtags/internal/colors"
	"github.com/arcanaland/cardtags/internal/tags"
)

var searchCmd = &cobra.Command{
	Use:   "search [terms...]",
	Short: "List the cards matching a query",
	Long: `Search prints every card matching all of the given terms, in catalog order.
With no terms every card is listed.

Examples:
  cardtags search dragon
  cardtags search blue flier
  cardtags search --catalog https://example.org/card_tags_merged.json w`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd, "search")
		if err != nil {
			return err
		}
		defer s.logger.Sync()

		cat, err := s.load(cmd.Context())
		if err != nil {
			return err
		}

		query := strings.Join(args, " ")
		matches := s.matcher.Filter(cat.Cards, query)

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			return writeCardsJSON(cmd.OutOrStdout(), matches)
		}

		out := cmd.OutOrStdout()
		if len(matches) == 0 {
			fmt.Fprintf(out, "No cards match (%d in catalog)\n", cat.Len())
			return nil
		}
		printCards(out, matches, terminalWidth())
		fmt.Fprintf(out, "%d of %d cards\n", len(matches), cat.Len())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(searchCmd)

	searchCmd.Flags().Bool("json", false, "Print matching cards as JSON")
}

func writeCardsJSON(w io.Writer, cards []card.Card) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(cards)
}

// printCards lists cards with their captions and tag groups
func printCards(w io.Writer, cards []card.Card, width int) {
	indent := "  "
	for _, c := range cards {
		header := colorize.New(colorize.FgHiWhite, colorize.Bold).Sprint(c.Name)
		if names := colors.Names(c.Colors); len(names) > 0 {
			header += colorize.HiBlackString(" · %s", strings.Join(names, ", "))
		}
		fmt.Fprintln(w, header)

		if c.Caption != "" {
			for _, line := range wrapText(c.Caption, width-len(indent)) {
				fmt.Fprintln(w, indent+colorize.WhiteString(line))
			}
		}

		for _, group := range tags.Groups(c) {
			title := group.Title + ": "
			lines := wrapText(strings.Join(group.Labels(), ", "), width-len(indent)-len(title))
			for i, line := range lines {
				if i == 0 {
					fmt.Fprintln(w, indent+colorize.CyanString(title)+line)
					continue
				}
				fmt.Fprintln(w, indent+strings.Repeat(" ", len(title))+line)
			}
		}
		fmt.Fprintln(w)
	}
}
