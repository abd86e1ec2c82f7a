package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/portfolio/internal/service"
	"github.com/Skotchmaster/portfolio/pkg/logging"
)

type MediaHTTP struct {
	Svc *service.MediaService
}

func (h *MediaHTTP) Upload(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "upload.create")

	fh, err := c.FormFile("file")
	if err != nil {
		l.Warn("upload_rejected", "status", 400, "reason", "no file", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "No file uploaded.")
	}
	src, err := fh.Open()
	if err != nil {
		l.Error("upload_failed", "status", 500, "reason", "cannot open part", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error processing uploaded file")
	}
	defer src.Close()

	up, err := h.Svc.Upload(ctx, fh.Filename, src, fh.Size)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("upload_rejected", "status", 400, "reason", "file type", "filename", fh.Filename)
			return echo.NewHTTPError(http.StatusBadRequest, clientMessage(err))
		}
		l.Error("upload_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error processing uploaded file")
	}

	l.Info("upload_stored", "name", up.Name, "size", fh.Size)
	return c.JSON(http.StatusOK, echo.Map{"url": up.URL})
}

func (h *MediaHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "upload.delete")

	existed, err := h.Svc.Delete(ctx, c.Param("filename"))
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid file name")
		}
		l.Error("upload_delete_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error deleting file")
	}
	if !existed {
		return c.JSON(http.StatusOK, echo.Map{"message": "File not found, no action taken"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "File deleted successfully"})
}

func (h *MediaHTTP) Serve(c echo.Context) error {
	ctx := c.Request().Context()

	obj, err := h.Svc.Open(ctx, c.Param("filename"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "File not found")
		default:
			logging.FromContext(ctx).Error("upload_serve_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Error reading file")
		}
	}
	defer obj.Body.Close()

	if obj.Size > 0 {
		c.Response().Header().Set(echo.HeaderContentLength, strconv.FormatInt(obj.Size, 10))
	}
	ct := obj.ContentType
	if ct == "" {
		ct = echo.MIMEOctetStream
	}
	c.Response().Header().Set(echo.HeaderXContentTypeOptions, "nosniff")
	return c.Stream(http.StatusOK, ct, obj.Body)
}
