package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arcanaland/cardtags/internal/catalog"
	"github.com/arcanaland/cardtags/internal/config"
	"github.com/arcanaland/cardtags/internal/logging"
	"github.com/arcanaland/cardtags/internal/search"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "cardtags",
	Short: "Search and browse a tagged trading-card catalog",
	Long: `Cardtags loads a catalog of trading-card images annotated with vision-model,
caption/NLP and text-analysis tags, and lets you search it by name, color or tag.

Search terms are separated by whitespace and all of them must match. Color
terms accept letters (w, u, b, r, g, c) or names (white, blue, black, red,
green, colorless).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.PersistentFlags().StringP("catalog", "c", "", "Catalog file, URL, or name in your catalog library")
	RootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	RootCmd.PersistentFlags().Bool("fold-tag-case", false, "Match tags regardless of their stored case")
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}

// session is the configuration shared by every command that reads a catalog
type session struct {
	cfg     *config.Config
	logger  *zap.Logger
	source  string
	matcher search.Matcher
}

// newSession loads config and applies flags on top of it
func newSession(cmd *cobra.Command, component string) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("fold-tag-case") {
		cfg.FoldTagCase, _ = flags.GetBool("fold-tag-case")
	}
	name := cfg.DefaultCatalog
	if flags.Changed("catalog") {
		name, _ = flags.GetString("catalog")
	}

	logger, err := logging.New(cfg.LogLevel, component)
	if err != nil {
		return nil, err
	}

	// unknown names fall through so the load reports the missing source
	source, err := config.ResolveCatalog(name)
	if err != nil {
		source = name
	}

	return &session{
		cfg:     cfg,
		logger:  logger,
		source:  source,
		matcher: search.Matcher{FoldTagCase: cfg.FoldTagCase},
	}, nil
}

func (s *session) loader() *catalog.Loader {
	timeout, _ := s.cfg.Timeout()
	return catalog.NewLoader(timeout, s.logger)
}

// load reads the session's catalog once
func (s *session) load(ctx context.Context) (*catalog.Catalog, error) {
	cat, err := s.loader().Load(ctx, s.source)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return cat, nil
}
