package service

import (
	"context"

	"github.com/Skotchmaster/journohub/internal/domain"
	"github.com/Skotchmaster/journohub/internal/repo"
	"github.com/Skotchmaster/journohub/internal/transport"
)

const recentActivityCount = 10

type StatsService struct {
	Repo *repo.GormRepo
}

func (s *StatsService) Overview(ctx context.Context) (*transport.Overview, error) {
	total, err := s.Repo.CountArticles(ctx, "")
	if err != nil {
		return nil, err
	}
	published, err := s.Repo.CountArticles(ctx, domain.StatusPublished)
	if err != nil {
		return nil, err
	}
	users, err := s.Repo.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.Repo.RecentlyUpdated(ctx, recentActivityCount)
	if err != nil {
		return nil, err
	}

	activity := make([]transport.Activity, len(recent))
	for i, a := range recent {
		activity[i] = transport.Activity{
			Action:    "Article " + a.Status,
			User:      a.AuthorID,
			Details:   a.Title,
			Timestamp: a.UpdatedAt,
		}
	}

	return &transport.Overview{
		TotalArticles:     total,
		PublishedArticles: published,
		ActiveUsers:       users,
		RecentActivity:    activity,
	}, nil
}
