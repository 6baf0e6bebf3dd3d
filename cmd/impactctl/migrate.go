package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/impact-hub-backend/internal/adapter/postgres"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status]",
	Short:     "Apply, roll back or list database migrations",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "status"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		m, err := postgres.NewMigrator(e.pool, e.log)
		if err != nil {
			return err
		}
		defer m.Close() //nolint:errcheck

		switch args[0] {
		case "up":
			return m.Up(ctx)
		case "down":
			return m.Down(ctx)
		}

		st, err := m.Status(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "VERSION\tAPPLIED\tPATH")
		for _, s := range st {
			fmt.Fprintf(tw, "%d\t%t\t%s\n", s.Version, s.Applied, s.Path)
		}
		return tw.Flush()
	},
}
