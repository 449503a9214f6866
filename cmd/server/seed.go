package main

import (
	"fmt"

	"github.com/anonto42/vidtube/backend/internal/router"
	"github.com/anonto42/vidtube/backend/internal/seed"
	"github.com/spf13/cobra"
)

var seedOpts = seed.DefaultOptions()

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the configured store with fake channels, videos and activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := router.OpenBackend(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer backend.Close()
		if backend.DB != nil {
			if err := router.Migrate(cmd.Context(), backend.DB); err != nil {
				return err
			}
		}

		sum, err := seed.NewSeeder(backend.Deps).Run(cmd.Context(), seedOpts)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d users, %d videos, %d comments, %d likes, %d subscriptions, %d playlists\n",
			sum.Users, sum.Videos, sum.Comments, sum.Likes, sum.Subscriptions, sum.Playlists)
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedOpts.Users, "users", seedOpts.Users, "number of users to create")
	seedCmd.Flags().IntVar(&seedOpts.VideosPerUser, "videos", seedOpts.VideosPerUser, "videos per user")
	seedCmd.Flags().IntVar(&seedOpts.CommentsPerVid, "comments", seedOpts.CommentsPerVid, "comments per published video")
}
