package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Embed offers without a cached vector and push CV embeddings to the vector store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		deps, err := wire(ctx)
		if err != nil {
			return err
		}

		res, err := deps.processing.Reindex(ctx)
		if err != nil {
			return err
		}
		zlog.Info("reindex finished",
			zap.Int("offers", res.Offers),
			zap.Int("candidates", res.Candidates),
			zap.Int("failed", res.Failed),
			zap.Int("stale", res.Stale),
		)
		return nil
	},
}
