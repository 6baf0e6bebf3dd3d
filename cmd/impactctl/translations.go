package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	partnerrepo "github.com/heartmarshall/impact-hub-backend/internal/adapter/postgres/partner"
	solutionrepo "github.com/heartmarshall/impact-hub-backend/internal/adapter/postgres/solution"
	"github.com/heartmarshall/impact-hub-backend/internal/service/partner"
	"github.com/heartmarshall/impact-hub-backend/internal/service/solution"
)

var translationsCollection string

var translationsCmd = &cobra.Command{
	Use:   "translations",
	Short: "Manage the cached translations",
}

var translationsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop cached translations so they are rebuilt on the next read",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		e, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		clearers := map[string]func(context.Context) (int64, error){
			solution.Collection: solutionrepo.New(e.pool).ClearTranslations,
			partner.Collection:  partnerrepo.New(e.pool).ClearTranslations,
		}

		names := []string{solution.Collection, partner.Collection}
		if translationsCollection != "" {
			if _, ok := clearers[translationsCollection]; !ok {
				return fmt.Errorf("unknown collection %q", translationsCollection)
			}
			names = []string{translationsCollection}
		}

		for _, name := range names {
			n, err := clearers[name](ctx)
			if err != nil {
				return fmt.Errorf("clear %s: %w", name, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: cleared translations on %d rows\n", name, n)
		}
		return nil
	},
}

func init() {
	translationsClearCmd.Flags().StringVar(&translationsCollection, "collection", "", "solutions or partners (default both)")
	translationsCmd.AddCommand(translationsClearCmd)
}
