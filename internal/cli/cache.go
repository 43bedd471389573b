package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/logle/pkg/cache"
	"github.com/matzehuels/logle/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the render cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached renders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if c.cfg.Cache.Disabled {
				printInfo(out, "Caching is disabled")
				return nil
			}

			store, err := c.newCache(false)
			if err != nil {
				return err
			}
			defer store.Close()

			clearer, ok := store.(cache.Clearer)
			if !ok {
				return errors.New(errors.ErrCodeInternal, "cache backend cannot be cleared")
			}
			if err := clearer.Clear(cmd.Context()); err != nil {
				return err
			}

			printSuccess(out, "Cleared render cache")
			if fc, ok := store.(*cache.FileCache); ok {
				printDetail(out, "Directory: %s", fc.Dir())
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.Cache.RedisURL != "" {
				printInfo(cmd.OutOrStdout(), "Cache is stored in Redis")
				return nil
			}
			dir, err := c.cacheDir()
			if err != nil {
				return errors.Wrap(errors.ErrCodeExternal, err, "no cache directory")
			}
			_, err = cmd.OutOrStdout().Write([]byte(dir + "\n"))
			return err
		},
	}
}
