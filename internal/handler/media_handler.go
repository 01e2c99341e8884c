package handler

import (
	"net/http"
	"path"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"adlens/internal/auth"
	apperrors "adlens/internal/errors"
	"adlens/internal/model"
	"adlens/internal/service"
)

// MediaHandler serves locally stored videos and images to users who can see the analysis.
type MediaHandler struct {
	svc  service.AnalysisService
	root string
}

// NewMediaHandler serves files below root, laid out by analysis id.
func NewMediaHandler(svc service.AnalysisService, root string) *MediaHandler {
	return &MediaHandler{svc: svc, root: root}
}

// ServeMedia streams one file of an analysis: GET /media/analyses/:id/*.
// Browsers loading <img> or <video> pass the token as ?token=.
func (h *MediaHandler) ServeMedia(c echo.Context) error {
	id, herr := parseID(c.Param("id"))
	if herr != nil {
		return herr
	}
	if _, err := h.svc.Get(c.Request().Context(), auth.CurrentUser(c), id); err != nil {
		return httpError(err)
	}

	name := path.Clean("/" + c.Param("*"))
	if name == "/" {
		return echo.NewHTTPError(http.StatusNotFound, apperrors.ErrorResponse{
			Error: "File not found",
			Code:  "NOT_FOUND",
		})
	}
	return c.File(filepath.Join(h.root, filepath.FromSlash(model.MediaPrefix(id)), filepath.FromSlash(name)))
}
