package httpserver

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/journohub/internal/service"
	"github.com/Skotchmaster/journohub/internal/transport"
)

type MediaHTTP struct {
	Svc *service.MediaService
}

func (h *MediaHTTP) Upload(c echo.Context) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return badRequest(c, "media.upload", "No file uploaded", err)
	}
	if fh.Size > service.MaxImageSize {
		return badRequest(c, "media.upload", "File too large", nil)
	}

	f, err := fh.Open()
	if err != nil {
		return badRequest(c, "media.upload", "cannot read upload", err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return badRequest(c, "media.upload", "cannot read upload", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fail(c, "media.upload", err, nil)
	}

	url, err := h.Svc.UploadImage(c.Request().Context(), fh.Filename, http.DetectContentType(head[:n]), f, fh.Size)
	if err != nil {
		return fail(c, "media.upload", err, nil)
	}
	return c.JSON(http.StatusOK, transport.UploadResponse{URL: url})
}
