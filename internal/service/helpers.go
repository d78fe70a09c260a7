package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/journohub/internal/cache"
	"github.com/Skotchmaster/journohub/internal/domain"
	"github.com/Skotchmaster/journohub/internal/events"
	"github.com/Skotchmaster/journohub/internal/models"
	"github.com/Skotchmaster/journohub/internal/search"
	pkg_hash "github.com/Skotchmaster/journohub/pkg/hash"
	"github.com/Skotchmaster/journohub/pkg/logging"
	"github.com/Skotchmaster/journohub/pkg/tokens"
)

const publishTimeout = 5 * time.Second

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// hashPassword is the only place plaintext passwords are turned into stored
// hashes.
func hashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: password is required", domain.ErrValidation)
	}
	h, err := pkg_hash.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return h, nil
}

func identityOf(u *models.User) tokens.Identity {
	return tokens.Identity{ID: u.ID, Email: u.Email, Role: u.Role, Name: u.Name}
}

// publish sends an event best-effort; failures are logged and dropped.
func publish(ctx context.Context, p events.Publisher, topic, key string, event map[string]any) {
	if p == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := p.PublishEvent(pctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("publish_event_failed", "topic", topic, "type", event["type"], "error", err)
	}
}

func syncIndex(ctx context.Context, idx search.Index, a *models.Article) {
	if idx == nil {
		return
	}
	var err error
	if a.Status == domain.StatusPublished {
		err = idx.IndexArticle(ctx, *a)
	} else {
		err = idx.RemoveArticle(ctx, a.ID)
	}
	if err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "article_id", a.ID, "error", err)
	}
}

func removeFromIndex(ctx context.Context, idx search.Index, ids ...string) {
	if idx == nil {
		return
	}
	for _, id := range ids {
		if err := idx.RemoveArticle(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_index_failed", "article_id", id, "error", err)
		}
	}
}

func invalidateFeatured(ctx context.Context, c cache.Featured) {
	if c == nil {
		return
	}
	if err := c.Invalidate(ctx); err != nil {
		logging.FromContext(ctx).Warn("featured_cache_invalidate_failed", "error", err)
	}
}
