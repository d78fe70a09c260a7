package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/journohub/internal/cache"
	"github.com/Skotchmaster/journohub/internal/domain"
	"github.com/Skotchmaster/journohub/internal/events"
	"github.com/Skotchmaster/journohub/internal/models"
	"github.com/Skotchmaster/journohub/internal/repo"
	"github.com/Skotchmaster/journohub/internal/search"
	"github.com/Skotchmaster/journohub/internal/transport"
	"github.com/Skotchmaster/journohub/pkg/logging"
)

type UserService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	Search search.Index
	Cache  cache.Featured
}

func (s *UserService) Me(ctx context.Context, id string) (*models.User, error) {
	return s.Repo.GetUser(ctx, id)
}

// PublicProfile returns the user with their published articles, newest first.
func (s *UserService) PublicProfile(ctx context.Context, id string) (*transport.ProfileResponse, error) {
	user, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	_, articles, err := s.Repo.ListArticles(ctx, repo.ArticleFilter{AuthorID: id, Status: domain.StatusPublished})
	if err != nil {
		return nil, err
	}
	return &transport.ProfileResponse{User: user, Articles: articles}, nil
}

func (s *UserService) ListStudents(ctx context.Context) ([]models.User, error) {
	return s.Repo.ListUsersByRole(ctx, domain.RoleStudent)
}

func (s *UserService) CreateStudent(ctx context.Context, req transport.CreateStudentRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "users.create_student")

	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" || name == "" {
		return nil, fmt.Errorf("%w: email and name are required", domain.ErrValidation)
	}
	pwHash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:        email,
		PasswordHash: pwHash,
		Role:         domain.RoleStudent,
		Name:         name,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		return nil, err
	}

	publish(ctx, s.Events, events.TopicUsers, user.ID, map[string]any{
		"type":   "user_created",
		"userID": user.ID,
		"email":  user.Email,
	})
	l.Info("create_student_success", "user_id", user.ID)
	return &user, nil
}

// DeleteStudent removes a student and all of their articles. Ids of other
// roles are reported as not found.
func (s *UserService) DeleteStudent(ctx context.Context, id string) error {
	_, owned, err := s.Repo.ListArticles(ctx, repo.ArticleFilter{AuthorID: id})
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteUserWithArticles(ctx, id, domain.RoleStudent); err != nil {
		return err
	}

	ids := make([]string, len(owned))
	for i, a := range owned {
		ids[i] = a.ID
	}
	removeFromIndex(ctx, s.Search, ids...)
	invalidateFeatured(ctx, s.Cache)

	publish(ctx, s.Events, events.TopicUsers, id, map[string]any{
		"type":            "user_deleted",
		"userID":          id,
		"articlesRemoved": len(ids),
	})
	return nil
}

func (s *UserService) ResetPassword(ctx context.Context, id, password string) error {
	pwHash, err := hashPassword(password)
	if err != nil {
		return err
	}
	return s.Repo.SetPassword(ctx, id, domain.RoleStudent, pwHash)
}

// UpdateProfile applies a partial profile update. Only the owner or an admin
// may edit a profile; role, email and password are never touched here.
func (s *UserService) UpdateProfile(ctx context.Context, actor domain.Actor, id string, req transport.PatchProfileRequest) (*models.User, error) {
	if !domain.CanEditProfile(actor, id) {
		return nil, domain.ErrForbidden
	}

	user, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	renamed := false
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrValidation)
		}
		renamed = name != user.Name
		user.Name = name
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Year != nil {
		user.Year = *req.Year
	}
	if req.Faculty != nil {
		user.Faculty = *req.Faculty
	}
	if req.ProfilePicture != nil {
		user.ProfilePicture = *req.ProfilePicture
	}
	if req.Awards != nil {
		for _, a := range *req.Awards {
			if strings.TrimSpace(a.Title) == "" {
				return nil, fmt.Errorf("%w: award title is required", domain.ErrValidation)
			}
		}
		user.Awards = append([]models.Award{}, *req.Awards...)
	}

	if err := s.Repo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	if renamed {
		invalidateFeatured(ctx, s.Cache)
	}
	return user, nil
}

// SeedAdmin makes sure an admin account with the given credentials exists.
// An existing account with that email is promoted and gets the password.
func (s *UserService) SeedAdmin(ctx context.Context, email, password string) error {
	l := logging.FromContext(ctx).With("svc", "users.seed_admin")

	email = normalizeEmail(email)
	if email == "" {
		return fmt.Errorf("%w: admin email is required", domain.ErrValidation)
	}
	pwHash, err := hashPassword(password)
	if err != nil {
		return err
	}

	user, err := s.Repo.FindUserByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		admin := models.User{
			Email:        email,
			PasswordHash: pwHash,
			Role:         domain.RoleAdmin,
			Name:         "Administrator",
		}
		if err := s.Repo.CreateUser(ctx, &admin); err != nil {
			return err
		}
		l.Info("admin_created", "user_id", admin.ID)
		return nil
	case err != nil:
		return err
	}

	if err := s.Repo.PromoteAdmin(ctx, user.ID, pwHash); err != nil {
		return err
	}
	l.Info("admin_updated", "user_id", user.ID)
	return nil
}
