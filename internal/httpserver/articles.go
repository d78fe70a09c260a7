package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/journohub/internal/domain"
	"github.com/Skotchmaster/journohub/internal/service"
	"github.com/Skotchmaster/journohub/internal/transport"
	"github.com/Skotchmaster/journohub/internal/util"
	"github.com/Skotchmaster/journohub/pkg/logging"
)

type ArticlesHTTP struct {
	Svc *service.ArticleService
}

var articleNotFound = messages{domain.ErrNotFound: "Article not found"}

func (h *ArticlesHTTP) Create(c echo.Context) error {
	var req transport.CreateArticleRequest
	if err := bindValid(c, "articles.create", &req); err != nil {
		return err
	}

	a, err := h.Svc.Create(c.Request().Context(), actorFrom(c), req)
	if err != nil {
		return fail(c, "articles.create", err, nil)
	}

	logging.FromContext(c.Request().Context()).Info("create_article_success", "article_id", a.ID)
	return c.JSON(http.StatusCreated, a)
}

func (h *ArticlesHTTP) Get(c echo.Context) error {
	a, err := h.Svc.Get(c.Request().Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		return fail(c, "articles.get", err, articleNotFound)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *ArticlesHTTP) List(c echo.Context) error {
	limit := util.ParseIntDefault(c.QueryParam("limit"), service.DefaultListLimit)

	items, err := h.Svc.List(c.Request().Context(), actorFrom(c), c.QueryParam("status"), limit)
	if err != nil {
		return fail(c, "articles.list", err, nil)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ArticlesHTTP) Update(c echo.Context) error {
	var req transport.PatchArticleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "articles.update", "invalid body", err)
	}

	a, err := h.Svc.Update(c.Request().Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		return fail(c, "articles.update", err, messages{
			domain.ErrNotFound:  "Article not found",
			domain.ErrForbidden: "Not authorized to update this article",
		})
	}
	return c.JSON(http.StatusOK, a)
}

func (h *ArticlesHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	if err := h.Svc.Delete(ctx, actorFrom(c), id); err != nil {
		return fail(c, "articles.delete", err, messages{
			domain.ErrNotFound:  "Article not found",
			domain.ErrForbidden: "Not authorized to delete this article",
		})
	}

	logging.FromContext(ctx).Info("delete_article_success", "article_id", id)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Article deleted"})
}

func (h *ArticlesHTTP) Featured(c echo.Context) error {
	views, err := h.Svc.Featured(c.Request().Context())
	if err != nil {
		return fail(c, "articles.featured", err, nil)
	}
	return c.JSON(http.StatusOK, views)
}

func (h *ArticlesHTTP) Public(c echo.Context) error {
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	res, err := h.Svc.Public(c.Request().Context(), page, size)
	if err != nil {
		return fail(c, "articles.public", err, nil)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *ArticlesHTTP) Search(c echo.Context) error {
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	res, err := h.Svc.Search(c.Request().Context(), c.QueryParam("q"), page, size)
	if err != nil {
		return fail(c, "articles.search", err, nil)
	}
	return c.JSON(http.StatusOK, res)
}
