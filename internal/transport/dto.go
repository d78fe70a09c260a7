package transport

import (
	"time"

	"github.com/Skotchmaster/journohub/internal/models"
)

type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"     validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CreateStudentRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"     validate:"required"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

// PatchProfileRequest lists the only profile fields a caller may change.
// Nil fields are left as they are.
type PatchProfileRequest struct {
	Name           *string         `json:"name"`
	Bio            *string         `json:"bio"`
	Year           *string         `json:"year"`
	Faculty        *string         `json:"faculty"`
	ProfilePicture *string         `json:"profilePicture"`
	Awards         *[]models.Award `json:"awards"`
}

type CreateArticleRequest struct {
	Title    string   `json:"title"    validate:"required"`
	Body     string   `json:"body"     validate:"required"`
	Status   string   `json:"status"   validate:"omitempty,oneof=draft published archived"`
	Tags     []string `json:"tags"`
	ImageURL string   `json:"imageUrl"`
}

type PatchArticleRequest struct {
	Title    *string   `json:"title"`
	Body     *string   `json:"body"`
	Status   *string   `json:"status"`
	Tags     *[]string `json:"tags"`
	ImageURL *string   `json:"imageUrl"`
}

type AssistRequest struct {
	Prompt  string `json:"prompt"  validate:"required"`
	Context string `json:"context"`
}

type AssistResponse struct {
	Suggestion string `json:"suggestion"`
}

type UploadResponse struct {
	URL string `json:"url"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// PublicUser is the identity part returned next to a token.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Name  string `json:"name"`
}

func NewPublicUser(u *models.User) PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, Role: u.Role, Name: u.Name}
}

type AuthResponse struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	User      PublicUser `json:"user"`
}

type ProfileResponse struct {
	User     *models.User     `json:"user"`
	Articles []models.Article `json:"articles"`
}

type AuthorRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ArticleView is an article as shown on public pages.
type ArticleView struct {
	models.Article
	Author AuthorRef `json:"author"`
}

type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

type ArticlePage struct {
	Data []ArticleView `json:"data"`
	Meta PageMeta      `json:"meta"`
}

type Activity struct {
	Action    string    `json:"action"`
	User      string    `json:"user"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

type Overview struct {
	TotalArticles     int64      `json:"totalArticles"`
	PublishedArticles int64      `json:"publishedArticles"`
	ActiveUsers       int64      `json:"activeUsers"`
	RecentActivity    []Activity `json:"recentActivity"`
}
