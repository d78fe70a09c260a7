package repo

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/journohub/internal/domain"
	"github.com/Skotchmaster/journohub/internal/models"
)

// ArticleFilter narrows an article listing. Empty fields do not filter.
type ArticleFilter struct {
	AuthorID string
	Status   string
	Limit    int
	Offset   int
}

func (r *GormRepo) CreateArticle(ctx context.Context, a *models.Article) error {
	return translate(r.DB.WithContext(ctx).Create(a).Error)
}

func (r *GormRepo) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	var a models.Article
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

var articleColumns = []string{"title", "body", "status", "tags", "image_url", "updated_at"}

// UpdateArticle writes the editable fields of a to an existing row. Author
// and creation time never change; a deleted row yields ErrNotFound.
func (r *GormRepo) UpdateArticle(ctx context.Context, a *models.Article) error {
	if a.Tags == nil {
		a.Tags = []string{}
	}
	a.UpdatedAt = time.Now()

	res := r.DB.WithContext(ctx).
		Model(&models.Article{}).
		Where("id = ?", a.ID).
		Select(articleColumns).
		Updates(&models.Article{
			Title:     a.Title,
			Body:      a.Body,
			Status:    a.Status,
			Tags:      a.Tags,
			ImageURL:  a.ImageURL,
			UpdatedAt: a.UpdatedAt,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GormRepo) DeleteArticle(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Article{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListArticles returns the matching articles newest first together with the
// total number of matches ignoring Limit and Offset.
func (r *GormRepo) ListArticles(ctx context.Context, f ArticleFilter) (int64, []models.Article, error) {
	base := func() *gorm.DB {
		q := r.DB.WithContext(ctx).Model(&models.Article{})
		if f.AuthorID != "" {
			q = q.Where("author_id = ?", f.AuthorID)
		}
		if f.Status != "" {
			q = q.Where("status = ?", f.Status)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return 0, nil, translate(err)
	}

	items := make([]models.Article, 0)
	q := base().Order("created_at DESC").Order("id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	if err := q.Find(&items).Error; err != nil {
		return 0, nil, translate(err)
	}
	return total, items, nil
}

// SearchPublished is the database fallback for full-text search: a
// case-insensitive substring match on title and body.
func (r *GormRepo) SearchPublished(ctx context.Context, query string, offset, limit int) (int64, []models.Article, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	base := func() *gorm.DB {
		return r.DB.WithContext(ctx).
			Model(&models.Article{}).
			Where("status = ?", domain.StatusPublished).
			Where("(LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(body) LIKE ? ESCAPE '\\')", pattern, pattern)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return 0, nil, translate(err)
	}

	items := make([]models.Article, 0, limit)
	if err := base().Order("created_at DESC").Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, translate(err)
	}
	return total, items, nil
}

// PublishedByIDs loads published articles preserving the order of ids.
func (r *GormRepo) PublishedByIDs(ctx context.Context, ids []string) ([]models.Article, error) {
	out := make([]models.Article, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var items []models.Article
	if err := r.DB.WithContext(ctx).
		Where("id IN ? AND status = ?", ids, domain.StatusPublished).
		Find(&items).Error; err != nil {
		return nil, translate(err)
	}
	byID := make(map[string]models.Article, len(items))
	for _, a := range items {
		byID[a.ID] = a
	}
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *GormRepo) CountArticles(ctx context.Context, status string) (int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Article{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, translate(err)
	}
	return n, nil
}

// RecentlyUpdated returns the n most recently updated articles of any status.
func (r *GormRepo) RecentlyUpdated(ctx context.Context, n int) ([]models.Article, error) {
	items := make([]models.Article, 0, n)
	if err := r.DB.WithContext(ctx).
		Order("updated_at DESC").
		Order("id DESC").
		Limit(n).
		Find(&items).Error; err != nil {
		return nil, translate(err)
	}
	return items, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
