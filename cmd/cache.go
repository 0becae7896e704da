package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	cacheApp "github.com/AzielCF/az-press/caching/application"
	cacheDomain "github.com/AzielCF/az-press/caching/domain"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and clear the cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count live keys per namespace",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		container, err := openContainer(cmd.Context())
		if err != nil {
			return err
		}
		defer container.Close()

		stats := container.Maintenance.Stats(cmd.Context())
		if !stats.Healthy {
			return fmt.Errorf("cache backend %s is unreachable", stats.Backend)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "NAMESPACE\tKEYS\n")
		for _, ns := range stats.Namespaces {
			fmt.Fprintf(w, "%s\t%s\n", ns.Namespace, humanize.Comma(int64(ns.Keys)))
		}
		fmt.Fprintf(w, "total\t%s\n", humanize.Comma(int64(stats.Total)))
		return w.Flush()
	},
}

var cacheClearLikesCmd = &cobra.Command{
	Use:   "clear-likes",
	Short: "Remove like sets (article, comment or all)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		target, _ := cmd.Flags().GetString("target")
		kinds, err := cacheApp.ParseLikeKinds(target)
		if err != nil {
			return err
		}

		container, err := openContainer(cmd.Context())
		if err != nil {
			return err
		}
		defer container.Close()

		removed, res := container.Maintenance.ClearLikes(cmd.Context(), kinds...)
		if res.Degraded() {
			return res.Err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s like sets\n", humanize.Comma(removed))
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear <namespace>",
	Short: "Remove every key of a namespace",
	Long:  "Remove every key of a namespace. Known namespaces: " + namespaceList(),
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ns := cacheDomain.Namespace(args[0])
		if !cacheApp.KnownNamespace(ns) {
			return fmt.Errorf("unknown namespace %q, expected one of %s", ns, namespaceList())
		}

		container, err := openContainer(cmd.Context())
		if err != nil {
			return err
		}
		defer container.Close()

		removed, res := container.Maintenance.ClearNamespace(cmd.Context(), ns)
		if res.Degraded() {
			return res.Err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s keys from %s\n", humanize.Comma(removed), ns)
		return nil
	},
}

func namespaceList() string {
	names := make([]string, len(cacheApp.Namespaces))
	for i, ns := range cacheApp.Namespaces {
		names[i] = string(ns)
	}
	return strings.Join(names, ", ")
}

func init() {
	cacheClearLikesCmd.Flags().String("target", "all", "article, comment or all")
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearLikesCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
