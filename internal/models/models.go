package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Award struct {
	Title       string `json:"title"`
	Year        string `json:"year"`
	Description string `json:"description"`
}

type User struct {
	ID             string    `gorm:"primaryKey;size:36"             json:"id"`
	Email          string    `gorm:"uniqueIndex;not null"           json:"email"`
	PasswordHash   string    `gorm:"not null"                       json:"-"`
	Role           string    `gorm:"index;not null;default:student" json:"role"`
	Name           string    `gorm:"not null"                       json:"name"`
	ProfilePicture string    `gorm:"not null"                       json:"profilePicture"`
	Bio            string    `gorm:"not null"                       json:"bio"`
	Year           string    `gorm:"not null"                       json:"year"`
	Faculty        string    `gorm:"not null"                       json:"faculty"`
	Awards         []Award   `gorm:"type:jsonb;serializer:json;not null" json:"awards"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.Awards == nil {
		u.Awards = []Award{}
	}
	return nil
}

type Article struct {
	ID        string    `gorm:"primaryKey;size:36"           json:"id"`
	Title     string    `gorm:"not null"                     json:"title"`
	Body      string    `gorm:"not null"                     json:"body"`
	Status    string    `gorm:"index;not null;default:draft" json:"status"`
	Tags      []string  `gorm:"type:jsonb;serializer:json;not null" json:"tags"`
	ImageURL  string    `gorm:"not null"                     json:"imageUrl"`
	AuthorID  string    `gorm:"index;not null;size:36"       json:"authorId"`
	CreatedAt time.Time `gorm:"index"                        json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

func (a *Article) BeforeSave(tx *gorm.DB) error {
	if a.Tags == nil {
		a.Tags = []string{}
	}
	return nil
}
