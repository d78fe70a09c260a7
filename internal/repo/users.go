package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/journohub/internal/domain"
	"github.com/Skotchmaster/journohub/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return translate(r.DB.WithContext(ctx).Create(u).Error)
}

func (r *GormRepo) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// FindUserByEmail expects an already normalized (trimmed, lower-case) email.
func (r *GormRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *GormRepo) ListUsersByRole(ctx context.Context, role string) ([]models.User, error) {
	users := make([]models.User, 0)
	if err := r.DB.WithContext(ctx).
		Where("role = ?", role).
		Order("created_at DESC").
		Order("id").
		Find(&users).Error; err != nil {
		return nil, translate(err)
	}
	return users, nil
}

// UsersByIDs loads the given users keyed by id. Missing ids are absent from
// the result.
func (r *GormRepo) UsersByIDs(ctx context.Context, ids []string) (map[string]models.User, error) {
	out := make(map[string]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []models.User
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, translate(err)
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// profileColumns are the only user columns a profile edit writes.
var profileColumns = []string{"name", "bio", "year", "faculty", "profile_picture", "awards", "updated_at"}

// UpdateProfile writes the profile fields of u to an existing row. Email,
// role and password hash are left alone, and a row deleted in the meantime
// is reported as ErrNotFound instead of being recreated.
func (r *GormRepo) UpdateProfile(ctx context.Context, u *models.User) error {
	if u.Awards == nil {
		u.Awards = []models.Award{}
	}
	u.UpdatedAt = time.Now()

	res := r.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", u.ID).
		Select(profileColumns).
		Updates(&models.User{
			Name:           u.Name,
			Bio:            u.Bio,
			Year:           u.Year,
			Faculty:        u.Faculty,
			ProfilePicture: u.ProfilePicture,
			Awards:         u.Awards,
			UpdatedAt:      u.UpdatedAt,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// PromoteAdmin turns an existing account into an admin with a new password.
func (r *GormRepo) PromoteAdmin(ctx context.Context, id, passwordHash string) error {
	res := r.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"role": domain.RoleAdmin, "password_hash": passwordHash})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetPassword replaces the password hash of a user with the given role.
func (r *GormRepo) SetPassword(ctx context.Context, id, role, passwordHash string) error {
	res := r.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND role = ?", id, role).
		Update("password_hash", passwordHash)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteUserWithArticles removes a user of the given role together with
// every article they authored.
func (r *GormRepo) DeleteUserWithArticles(ctx context.Context, id, role string) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("id = ? AND role = ?", id, role).First(&user).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&models.Article{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	return translate(err)
}

func (r *GormRepo) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, translate(err)
	}
	return n, nil
}
