package seed

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/services"
	"github.com/anonto42/vidtube/backend/pkg/logger"
	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"
)

// Options sizes a seed run.
type Options struct {
	Users          int
	VideosPerUser  int
	CommentsPerVid int
}

func DefaultOptions() Options {
	return Options{Users: 10, VideosPerUser: 5, CommentsPerVid: 3}
}

// Summary counts what a seed run created.
type Summary struct {
	Users         int
	Videos        int
	Comments      int
	Likes         int
	Subscriptions int
	Playlists     int
}

// Seeder fills a store with fake channels and activity through the regular services,
// so the data obeys the same rules as real traffic.
type Seeder struct {
	deps services.Deps
	svc  *services.Services
	log  *zap.Logger
}

func NewSeeder(deps services.Deps) *Seeder {
	return &Seeder{deps: deps, svc: services.New(deps), log: logger.Named("seed")}
}

func (s *Seeder) Run(ctx context.Context, opts Options) (Summary, error) {
	var sum Summary

	users := make([]string, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		u := &models.User{
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:    gofakeit.Email(),
			FullName: gofakeit.Name(),
			Avatar:   gofakeit.URL(),
		}
		if err := s.deps.Users.Create(ctx, u); err != nil {
			return sum, fmt.Errorf("create user: %w", err)
		}
		users = append(users, u.ID.Hex())
		sum.Users++
	}

	var videos []string
	for _, owner := range users {
		for i := 0; i < opts.VideosPerUser; i++ {
			published := rand.IntN(5) > 0
			v, err := s.svc.Videos.Publish(ctx, owner, models.CreateVideoRequest{
				Title:       gofakeit.HipsterSentence(),
				Description: gofakeit.HipsterSentence(),
				VideoFile:   models.MediaHandle{URL: gofakeit.URL(), Duration: float64(gofakeit.Number(10, 3600))},
				Thumbnail:   models.MediaHandle{URL: gofakeit.URL()},
				IsPublished: &published,
			})
			if err != nil {
				return sum, fmt.Errorf("publish video: %w", err)
			}
			sum.Videos++
			if published {
				videos = append(videos, v.ID.Hex())
			}
		}
	}

	for _, video := range videos {
		for i := 0; i < opts.CommentsPerVid; i++ {
			if _, err := s.svc.Comments.Create(ctx, pick(users), video, gofakeit.HipsterSentence()); err != nil {
				return sum, fmt.Errorf("create comment: %w", err)
			}
			sum.Comments++
		}
	}

	for _, actor := range users {
		for _, video := range sample(videos, 3) {
			res, err := s.svc.Relations.Toggle(ctx, actor, models.TargetVideo, video)
			if err != nil {
				return sum, fmt.Errorf("like video: %w", err)
			}
			if res.State == models.ToggleCreated {
				sum.Likes++
			}
		}
		for _, channel := range sample(users, 2) {
			if channel == actor {
				continue
			}
			res, err := s.svc.Relations.Toggle(ctx, actor, models.TargetChannel, channel)
			if err != nil {
				return sum, fmt.Errorf("subscribe: %w", err)
			}
			if res.State == models.ToggleCreated {
				sum.Subscriptions++
			}
		}

		pl, err := s.svc.Playlists.Create(ctx, actor, models.CreatePlaylistRequest{Name: gofakeit.Word() + " mix"})
		if err != nil {
			return sum, fmt.Errorf("create playlist: %w", err)
		}
		sum.Playlists++
		for _, video := range sample(videos, 4) {
			if _, err := s.svc.Playlists.AddVideo(ctx, actor, pl.ID.Hex(), video); err != nil {
				return sum, fmt.Errorf("fill playlist: %w", err)
			}
		}
	}

	s.log.Info("Seed completed",
		zap.Int("users", sum.Users),
		zap.Int("videos", sum.Videos),
		zap.Int("comments", sum.Comments),
		zap.Int("likes", sum.Likes),
		zap.Int("subscriptions", sum.Subscriptions),
	)
	return sum, nil
}

func pick(ids []string) string {
	return ids[rand.IntN(len(ids))]
}

// sample returns up to n distinct entries of ids.
func sample(ids []string, n int) []string {
	if n > len(ids) {
		n = len(ids)
	}
	out := make([]string, 0, n)
	for _, i := range rand.Perm(len(ids))[:n] {
		out = append(out, ids[i])
	}
	return out
}
