package domain

const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Actor is the caller of an operation. The zero value is an anonymous caller.
type Actor struct {
	ID   string
	Role string
}

func (a Actor) Anonymous() bool { return a.ID == "" }

func (a Actor) IsAdmin() bool { return !a.Anonymous() && a.Role == RoleAdmin }

// CanViewArticle: published articles are public, everything else is visible
// to its author and to admins.
func CanViewArticle(a Actor, authorID, status string) bool {
	if status == StatusPublished {
		return true
	}
	if a.Anonymous() {
		return false
	}
	return a.ID == authorID || a.IsAdmin()
}

// CanModifyArticle requires the caller to be the author. Admins get no
// exemption here, unlike CanEditProfile.
func CanModifyArticle(a Actor, authorID string) bool {
	return !a.Anonymous() && a.ID == authorID
}

func CanEditProfile(a Actor, userID string) bool {
	if a.Anonymous() {
		return false
	}
	return a.ID == userID || a.IsAdmin()
}

// ListScope returns the author filter applied to an authenticated article
// listing; an empty string means unscoped.
func ListScope(a Actor) string {
	if a.IsAdmin() {
		return ""
	}
	return a.ID
}
