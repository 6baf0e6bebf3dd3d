package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	partnerrepo "github.com/heartmarshall/impact-hub-backend/internal/adapter/postgres/partner"
	solutionrepo "github.com/heartmarshall/impact-hub-backend/internal/adapter/postgres/solution"
	"github.com/heartmarshall/impact-hub-backend/internal/app"
	"github.com/heartmarshall/impact-hub-backend/internal/service/partner"
	"github.com/heartmarshall/impact-hub-backend/internal/service/solution"
	"github.com/heartmarshall/impact-hub-backend/internal/vectorindex"
)

var indexCollection string

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Inspect the vector indexes",
}

// indexCheckCmd builds an index with the configured embedder and prints
// its stats. It verifies provider credentials and data before a deploy.
var indexCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Build an index offline and print its stats",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		e, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		emb, err := app.NewEmbedder(e.log, e.cfg.Embedding)
		if err != nil {
			return err
		}
		opts := vectorindex.Options{
			MinSimilarity: e.cfg.Search.MinSimilarity,
			Workers:       e.cfg.Search.BuildWorkers,
		}

		type checker interface {
			EnsureBuilt(ctx context.Context) error
			Stats() vectorindex.Stats
			Dispose()
		}

		var ix checker
		switch indexCollection {
		case solution.Collection:
			ix, err = vectorindex.New(e.log, solution.IndexSchema(), solutionrepo.New(e.pool), emb, opts)
		case partner.Collection:
			ix, err = vectorindex.New(e.log, partner.IndexSchema(), partnerrepo.New(e.pool), emb, opts)
		default:
			return fmt.Errorf("collection must be %s or %s (got %q)", solution.Collection, partner.Collection, indexCollection)
		}
		if err != nil {
			return err
		}
		defer ix.Dispose()

		start := time.Now()
		if err := ix.EnsureBuilt(ctx); err != nil {
			return fmt.Errorf("build %s: %w", indexCollection, err)
		}

		out := struct {
			vectorindex.Stats
			Took string `json:"took"`
		}{ix.Stats(), time.Since(start).Round(time.Millisecond).String()}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	indexCheckCmd.Flags().StringVar(&indexCollection, "collection", solution.Collection, "solutions or partners")
	indexCmd.AddCommand(indexCheckCmd)
}
