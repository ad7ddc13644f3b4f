package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/devstudy/devstudy-backend/internal/bootstrap"
	"github.com/devstudy/devstudy-backend/internal/content/domain"
	contentservice "github.com/devstudy/devstudy-backend/internal/content/service"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep-orphans",
	Short: "Delete content items whose parent is gone",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		content, err := bootstrap.OpenContentStore(ctx, appConfig, nil)
		if err != nil {
			return err
		}
		defer content.Close()

		removed, err := contentservice.NewContentService(content.Store).SweepOrphans(ctx)
		if err != nil {
			return err
		}

		cols := make([]string, 0, len(removed))
		for col := range removed {
			cols = append(cols, string(col))
		}
		sort.Strings(cols)

		out := cmd.OutOrStdout()
		if len(cols) == 0 {
			fmt.Fprintln(out, "No orphans found")
			return nil
		}
		for _, col := range cols {
			fmt.Fprintf(out, "%-10s %d\n", col, removed[domain.Collection(col)])
		}
		return nil
	},
}
