// Package commands defines the leetcode-anki command line.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"leetcode-anki/internal/config"
	"leetcode-anki/internal/di"
)

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "leetcode-anki",
		Short: "Builds an Anki deck from your LeetCode problems.",
		Long: "leetcode-anki fetches LeetCode problems for the signed-in user, caches them on disk\n" +
			"and writes them as an Anki package. Reruns only fetch problems missing from the cache.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, true)
			if err != nil {
				return err
			}
			application, err := di.InitializeApp(cfg, di.Streams{Log: cmd.ErrOrStderr(), Report: cmd.OutOrStdout()})
			if err != nil {
				return fmt.Errorf("initialize application: %w", err)
			}
			return application.Run(cmd.Context())
		},
	}
	config.RegisterFlags(root.PersistentFlags())
	root.AddCommand(newCacheCommand())
	return root
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// loadConfig merges flags over the file and environment configuration.
func loadConfig(cmd *cobra.Command, validate bool) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	if !validate {
		return cfg, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
