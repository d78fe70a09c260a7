package httpserver

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/journohub/internal/domain"
	pkgdb "github.com/Skotchmaster/journohub/pkg/db"
	middleware "github.com/Skotchmaster/journohub/pkg/middleware/auth"
	loggingmw "github.com/Skotchmaster/journohub/pkg/middleware/logging"
)

type Deps struct {
	DB     *gorm.DB
	Tokens middleware.Verifier

	Auth     *AuthHTTP
	Users    *UsersHTTP
	Articles *ArticlesHTTP
	Stats    *StatsHTTP
	Media    *MediaHTTP
	Assist   *AssistHTTP

	// LocalUploadDir, when set, is served under LocalUploadURL.
	LocalUploadDir string
	LocalUploadURL string
}

// NewEcho builds the echo instance with the middleware stack every route
// shares.
func NewEcho(logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.DB == nil {
			return c.NoContent(http.StatusOK)
		}
		if err := pkgdb.Ping(c.Request().Context(), d.DB); err != nil {
			return fail(c, "health.ready", fmt.Errorf("%w: %w", domain.ErrDependencyUnavailable, err), nil)
		}
		return c.NoContent(http.StatusOK)
	})

	if d.LocalUploadDir != "" && strings.HasPrefix(d.LocalUploadURL, "/") {
		e.Static(d.LocalUploadURL, d.LocalUploadDir)
	}

	auth := middleware.NewBearerAuth(d.Tokens)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	api := e.Group("/api")

	api.POST("/auth/register", d.Auth.Register)
	api.POST("/auth/login", d.Auth.Login)

	users := api.Group("/users")
	users.GET("/me", d.Users.Me, auth.RequireAuth)
	users.GET("/profile/:id", d.Users.Profile)
	users.GET("", d.Users.ListStudents, auth.RequireAuth, adminOnly)
	users.POST("", d.Users.CreateStudent, auth.RequireAuth, adminOnly)
	users.DELETE("/:id", d.Users.DeleteStudent, auth.RequireAuth, adminOnly)
	users.POST("/:id/reset-password", d.Users.ResetPassword, auth.RequireAuth, adminOnly)
	users.PATCH("/:id", d.Users.UpdateProfile, auth.RequireAuth)

	articles := api.Group("/articles")
	articles.GET("/featured", d.Articles.Featured)
	articles.GET("/public", d.Articles.Public)
	articles.GET("/search", d.Articles.Search)
	articles.GET("", d.Articles.List, auth.RequireAuth)
	articles.POST("", d.Articles.Create, auth.RequireAuth)
	articles.GET("/:id", d.Articles.Get, auth.OptionalAuth)
	articles.PATCH("/:id", d.Articles.Update, auth.RequireAuth)
	articles.DELETE("/:id", d.Articles.Delete, auth.RequireAuth)

	api.GET("/stats/overview", d.Stats.Overview, auth.RequireAuth, adminOnly)
	api.POST("/upload", d.Media.Upload, auth.RequireAuth, echomw.BodyLimit("6M"))
	api.POST("/ai/assist", d.Assist.Assist, auth.RequireAuth)
}
