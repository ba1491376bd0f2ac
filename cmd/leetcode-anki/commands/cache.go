package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"leetcode-anki/internal/di"
	"leetcode-anki/internal/domain/errs"
)

type cacheNamespace interface {
	Dir() string
	Erase(key string) error
	Clear() error
	Keys() ([]string, error)
}

func newCacheCommand() *cobra.Command {
	cache := &cobra.Command{
		Use:   "cache",
		Short: "Inspects and prunes the on-disk problem cache.",
	}
	cache.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Prints the number of cached entries per namespace.",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				namespaces, err := openCaches(cmd)
				if err != nil {
					return err
				}
				for _, ns := range namespaces {
					keys, err := ns.Keys()
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", ns.Dir(), len(keys))
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "erase <slug>...",
			Short: "Removes cached entries so the next run fetches them again.",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				namespaces, err := openCaches(cmd)
				if err != nil {
					return err
				}
				for _, slug := range args {
					for _, ns := range namespaces {
						if err := ns.Erase(slug); err != nil {
							return err
						}
					}
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Removes every cached entry.",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				namespaces, err := openCaches(cmd)
				if err != nil {
					return err
				}
				for _, ns := range namespaces {
					if err := ns.Clear(); err != nil {
						return err
					}
				}
				return nil
			},
		},
	)
	return cache
}

func openCaches(cmd *cobra.Command) ([]cacheNamespace, error) {
	cfg, err := loadConfig(cmd, false)
	if err != nil {
		return nil, err
	}
	if cfg.CacheDir == "" {
		return nil, fmt.Errorf("cache dir is empty: %w", errs.ErrConfiguration)
	}
	caches, err := di.InitializeCaches(cfg, di.Streams{Log: cmd.ErrOrStderr()})
	if err != nil {
		return nil, err
	}
	return []cacheNamespace{caches.Problems, caches.Submissions}, nil
}
