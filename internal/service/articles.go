package service

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/Skotchmaster/journohub/internal/cache"
	"github.com/Skotchmaster/journohub/internal/domain"
	"github.com/Skotchmaster/journohub/internal/events"
	"github.com/Skotchmaster/journohub/internal/models"
	"github.com/Skotchmaster/journohub/internal/repo"
	"github.com/Skotchmaster/journohub/internal/search"
	"github.com/Skotchmaster/journohub/internal/transport"
	"github.com/Skotchmaster/journohub/internal/util"
	"github.com/Skotchmaster/journohub/pkg/logging"
)

const (
	DefaultListLimit = 10
	MaxListLimit     = 100
	FeaturedCount    = 3
)

type ArticleService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	Index  search.Index
	Cache  cache.Featured
}

func (s *ArticleService) Create(ctx context.Context, actor domain.Actor, req transport.CreateArticleRequest) (*models.Article, error) {
	if actor.Anonymous() {
		return nil, domain.ErrUnauthenticated
	}

	status := req.Status
	if status == "" {
		status = domain.StatusDraft
	}
	a := models.Article{
		Title:    strings.TrimSpace(req.Title),
		Body:     req.Body,
		Status:   status,
		Tags:     normalizeTags(req.Tags),
		ImageURL: req.ImageURL,
		AuthorID: actor.ID,
	}
	if err := validateArticle(&a); err != nil {
		return nil, err
	}

	if err := s.Repo.CreateArticle(ctx, &a); err != nil {
		return nil, err
	}

	s.afterWrite(ctx, "article_created", &a)
	return &a, nil
}

// Get hides non-published articles from callers who may not see them behind
// ErrNotFound, the same answer as for a missing id.
func (s *ArticleService) Get(ctx context.Context, actor domain.Actor, id string) (*models.Article, error) {
	a, err := s.Repo.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanViewArticle(actor, a.AuthorID, a.Status) {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

// List returns the caller's articles newest first; admins see everyone's.
func (s *ArticleService) List(ctx context.Context, actor domain.Actor, status string, limit int) ([]models.Article, error) {
	if actor.Anonymous() {
		return nil, domain.ErrUnauthenticated
	}
	if status != "" && !domain.ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	_, items, err := s.Repo.ListArticles(ctx, repo.ArticleFilter{
		AuthorID: domain.ListScope(actor),
		Status:   status,
		Limit:    limit,
	})
	return items, err
}

// Update applies a partial update. Only the author may modify an article,
// admins included. A patch that changes nothing is not written, so
// updatedAt keeps its value.
func (s *ArticleService) Update(ctx context.Context, actor domain.Actor, id string, req transport.PatchArticleRequest) (*models.Article, error) {
	a, err := s.Repo.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanModifyArticle(actor, a.AuthorID) {
		logging.FromContext(ctx).Warn("article_update_denied", "article_id", id, "caller", actor.ID)
		return nil, domain.ErrForbidden
	}

	next := *a
	if req.Title != nil {
		next.Title = strings.TrimSpace(*req.Title)
	}
	if req.Body != nil {
		next.Body = *req.Body
	}
	if req.Status != nil {
		next.Status = *req.Status
	}
	if req.Tags != nil {
		next.Tags = normalizeTags(*req.Tags)
	}
	if req.ImageURL != nil {
		next.ImageURL = *req.ImageURL
	}
	if err := validateArticle(&next); err != nil {
		return nil, err
	}
	if sameContent(a, &next) {
		return a, nil
	}

	if err := s.Repo.UpdateArticle(ctx, &next); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, "article_updated", &next)
	return &next, nil
}

func (s *ArticleService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	a, err := s.Repo.GetArticle(ctx, id)
	if err != nil {
		return err
	}
	if !domain.CanModifyArticle(actor, a.AuthorID) {
		logging.FromContext(ctx).Warn("article_delete_denied", "article_id", id, "caller", actor.ID)
		return domain.ErrForbidden
	}
	if err := s.Repo.DeleteArticle(ctx, id); err != nil {
		return err
	}

	removeFromIndex(ctx, s.Index, id)
	invalidateFeatured(ctx, s.Cache)
	publish(ctx, s.Events, events.TopicArticles, id, map[string]any{
		"type":      "article_deleted",
		"articleID": id,
		"authorID":  a.AuthorID,
	})
	return nil
}

// Featured returns the newest published articles for the landing page.
func (s *ArticleService) Featured(ctx context.Context) ([]transport.ArticleView, error) {
	l := logging.FromContext(ctx).With("svc", "articles.featured")

	if s.Cache != nil {
		payload, ok, err := s.Cache.Get(ctx)
		if err != nil {
			l.Warn("featured_cache_get_failed", "error", err)
		}
		if ok {
			var views []transport.ArticleView
			if err := json.Unmarshal(payload, &views); err == nil {
				return views, nil
			}
			l.Warn("featured_cache_corrupt")
		}
	}

	_, items, err := s.Repo.ListArticles(ctx, repo.ArticleFilter{Status: domain.StatusPublished, Limit: FeaturedCount})
	if err != nil {
		return nil, err
	}
	views, err := s.withAuthors(ctx, items)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if payload, err := json.Marshal(views); err == nil {
			if err := s.Cache.Set(ctx, payload); err != nil {
				l.Warn("featured_cache_set_failed", "error", err)
			}
		}
	}
	return views, nil
}

// Public is the paginated feed of all published articles, newest first.
func (s *ArticleService) Public(ctx context.Context, page, size int) (*transport.ArticlePage, error) {
	page, offset, limit := util.Calculate(page, size)
	total, items, err := s.Repo.ListArticles(ctx, repo.ArticleFilter{
		Status: domain.StatusPublished,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}
	return s.page(ctx, items, total, page, offset, limit)
}

// Search looks up published articles. The search index is used when one is
// configured; if it fails the database is searched instead.
func (s *ArticleService) Search(ctx context.Context, query string, page, size int) (*transport.ArticlePage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrValidation)
	}
	page, offset, limit := util.Calculate(page, size)

	if s.Index != nil {
		total, ids, err := s.Index.Search(ctx, query, offset, limit)
		if err == nil {
			items, err := s.Repo.PublishedByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
			return s.page(ctx, items, total, page, offset, limit)
		}
		logging.FromContext(ctx).Warn("search_index_query_failed", "error", err)
	}

	total, items, err := s.Repo.SearchPublished(ctx, query, offset, limit)
	if err != nil {
		return nil, err
	}
	return s.page(ctx, items, total, page, offset, limit)
}

func (s *ArticleService) page(ctx context.Context, items []models.Article, total int64, page, offset, limit int) (*transport.ArticlePage, error) {
	views, err := s.withAuthors(ctx, items)
	if err != nil {
		return nil, err
	}
	return &transport.ArticlePage{
		Data: views,
		Meta: transport.PageMeta{
			Page:       page,
			Size:       limit,
			Total:      total,
			TotalPages: util.TotalPages(total, limit),
			HasPrev:    page > 1,
			HasNext:    int64(offset+limit) < total,
		},
	}, nil
}

func (s *ArticleService) withAuthors(ctx context.Context, items []models.Article) ([]transport.ArticleView, error) {
	ids := make([]string, 0, len(items))
	for _, a := range items {
		if !slices.Contains(ids, a.AuthorID) {
			ids = append(ids, a.AuthorID)
		}
	}
	authors, err := s.Repo.UsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]transport.ArticleView, len(items))
	for i, a := range items {
		views[i] = transport.ArticleView{
			Article: a,
			Author:  transport.AuthorRef{ID: a.AuthorID, Name: authors[a.AuthorID].Name},
		}
	}
	return views, nil
}

func (s *ArticleService) afterWrite(ctx context.Context, eventType string, a *models.Article) {
	syncIndex(ctx, s.Index, a)
	invalidateFeatured(ctx, s.Cache)
	publish(ctx, s.Events, events.TopicArticles, a.ID, map[string]any{
		"type":      eventType,
		"articleID": a.ID,
		"authorID":  a.AuthorID,
		"status":    a.Status,
		"title":     a.Title,
	})
}

func validateArticle(a *models.Article) error {
	if a.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if strings.TrimSpace(a.Body) == "" {
		return fmt.Errorf("%w: body is required", domain.ErrValidation)
	}
	if !domain.ValidStatus(a.Status) {
		return fmt.Errorf("%w: unknown status %q", domain.ErrValidation, a.Status)
	}
	return nil
}

// normalizeTags trims tags and drops blanks and duplicates, keeping the
// first occurrence order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func sameContent(a, b *models.Article) bool {
	return a.Title == b.Title &&
		a.Body == b.Body &&
		a.Status == b.Status &&
		a.ImageURL == b.ImageURL &&
		slices.Equal(a.Tags, b.Tags)
}
