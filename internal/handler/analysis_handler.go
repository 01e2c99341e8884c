package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"adlens/internal/auth"
	"adlens/internal/model"
	"adlens/internal/service"
)

// AnalysisHandler serves analysis records.
type AnalysisHandler struct {
	svc service.AnalysisService
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(svc service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{svc: svc}
}

// CreateAnalysisRequest creates a record the client fills in itself.
type CreateAnalysisRequest struct {
	VideoName string `json:"videoName" validate:"required"`
	ModelUsed string `json:"modelUsed"`
}

// UpdateAnalysisRequest is a partial update. id, uploaderId, uploaderName and date are not accepted.
type UpdateAnalysisRequest struct {
	VideoName         *string                  `json:"videoName"`
	ThumbnailURL      *string                  `json:"thumbnailUrl"`
	VideoURL          *string                  `json:"videoUrl"`
	Status            *model.AnalysisStatus    `json:"status"`
	ProgressMessage   *string                  `json:"progressMessage"`
	PreliminaryResult *model.PreliminaryResult `json:"preliminaryResult"`
	FullResult        *model.FullResult        `json:"fullResult"`
	TotalScore        *int                     `json:"totalScore"`
	Grade             *string                  `json:"grade"`
	IsPublic          *bool                    `json:"isPublic"`
	ModelUsed         *string                  `json:"modelUsed"`
}

// CopySuggestionsRequest asks for rewrites of one piece of ad copy.
type CopySuggestionsRequest struct {
	OriginalText   string `json:"originalText" validate:"required"`
	SuggestionType string `json:"suggestionType" validate:"required"`
}

// CopySuggestionsResponse carries up to three rewrites.
type CopySuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

// CompareQuery selects the two records to compare.
type CompareQuery struct {
	A uint `query:"a" validate:"required"`
	B uint `query:"b" validate:"required"`
}

// ListAnalyses godoc
// @Summary List analyses
// @Description Admins see every record, other users their own plus public ones. Newest first.
// @Tags analyses
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Analysis
// @Failure 401 {object} errors.ErrorResponse
// @Router /analyses [get]
func (h *AnalysisHandler) ListAnalyses(c echo.Context) error {
	list, err := h.svc.List(c.Request().Context(), auth.CurrentUser(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}

// CreateAnalysis godoc
// @Summary Create analysis record
// @Tags analyses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateAnalysisRequest true "Record data"
// @Success 201 {object} model.Analysis
// @Failure 400 {object} errors.ErrorResponse
// @Router /analyses [post]
func (h *AnalysisHandler) CreateAnalysis(c echo.Context) error {
	var req CreateAnalysisRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request body", "INVALID_REQUEST")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest("videoName is required", "VALIDATION_ERROR")
	}

	a, err := h.svc.Create(c.Request().Context(), auth.CurrentUser(c), service.CreateAnalysisInput{
		VideoName: req.VideoName,
		ModelUsed: req.ModelUsed,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, a)
}

// GetAnalysis godoc
// @Summary Get analysis
// @Tags analyses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Analysis ID"
// @Success 200 {object} model.Analysis
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /analyses/{id} [get]
func (h *AnalysisHandler) GetAnalysis(c echo.Context) error {
	id, herr := parseID(c.Param("id"))
	if herr != nil {
		return herr
	}
	a, err := h.svc.Get(c.Request().Context(), auth.CurrentUser(c), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, a)
}

// UpdateAnalysis godoc
// @Summary Update analysis
// @Tags analyses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Analysis ID"
// @Param request body UpdateAnalysisRequest true "Fields to change"
// @Success 200 {object} model.Analysis
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /analyses/{id} [patch]
func (h *AnalysisHandler) UpdateAnalysis(c echo.Context) error {
	id, herr := parseID(c.Param("id"))
	if herr != nil {
		return herr
	}
	var req UpdateAnalysisRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return badRequest("Invalid request body", "INVALID_REQUEST")
	}

	a, err := h.svc.Update(c.Request().Context(), auth.CurrentUser(c), id, service.UpdateAnalysisInput{
		VideoName:         req.VideoName,
		ThumbnailURL:      req.ThumbnailURL,
		VideoURL:          req.VideoURL,
		Status:            req.Status,
		ProgressMessage:   req.ProgressMessage,
		PreliminaryResult: req.PreliminaryResult,
		FullResult:        req.FullResult,
		TotalScore:        req.TotalScore,
		Grade:             req.Grade,
		IsPublic:          req.IsPublic,
		ModelUsed:         req.ModelUsed,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, a)
}

// DeleteAnalysis godoc
// @Summary Delete analysis
// @Description Deleting a missing record succeeds.
// @Tags analyses
// @Security BearerAuth
// @Param id path int true "Analysis ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Router /analyses/{id} [delete]
func (h *AnalysisHandler) DeleteAnalysis(c echo.Context) error {
	id, herr := parseID(c.Param("id"))
	if herr != nil {
		return herr
	}
	if err := h.svc.Delete(c.Request().Context(), auth.CurrentUser(c), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CompareAnalyses godoc
// @Summary Compare two analyses
// @Tags analyses
// @Produce json
// @Security BearerAuth
// @Param a query int true "Base analysis ID"
// @Param b query int true "Compared analysis ID"
// @Success 200 {object} service.Comparison
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /analyses/compare [get]
func (h *AnalysisHandler) CompareAnalyses(c echo.Context) error {
	var q CompareQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return badRequest("Invalid analysis id", "INVALID_ID")
	}
	if err := c.Validate(&q); err != nil {
		return badRequest("Query parameters a and b are required", "VALIDATION_ERROR")
	}

	cmp, err := h.svc.Compare(c.Request().Context(), auth.CurrentUser(c), q.A, q.B)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, cmp)
}

// UploadVideo godoc
// @Summary Upload a video for analysis
// @Description Stores the video, creates the record and queues the analysis. Progress arrives over the events websocket.
// @Tags analyses
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param video formData file true "Video file"
// @Param modelUsed formData string false "Model label"
// @Param placement formData string false "Reels, Stories or Feed"
// @Param language formData string false "Output language tag"
// @Success 202 {object} model.Analysis
// @Failure 400 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /analyses/upload [post]
func (h *AnalysisHandler) UploadVideo(c echo.Context) error {
	file, err := c.FormFile("video")
	if err != nil {
		return badRequest("A video file is required", "VIDEO_REQUIRED")
	}

	placement := model.Placement(c.FormValue("placement"))
	switch placement {
	case "", model.PlacementReels, model.PlacementStories, model.PlacementFeed:
	default:
		return badRequest("placement must be Reels, Stories or Feed", "INVALID_PLACEMENT")
	}

	src, err := file.Open()
	if err != nil {
		return badRequest("Could not read the uploaded file", "INVALID_VIDEO")
	}
	defer src.Close()

	a, err := h.svc.Submit(c.Request().Context(), auth.CurrentUser(c), service.UploadInput{
		FileName:    file.Filename,
		ContentType: file.Header.Get(echo.HeaderContentType),
		Size:        file.Size,
		Body:        src,
		ModelUsed:   c.FormValue("modelUsed"),
		Options: model.AnalysisOptions{
			Placement: placement,
			Language:  c.FormValue("language"),
		},
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusAccepted, a)
}

// CopySuggestions godoc
// @Summary Suggest ad copy
// @Description Rewrites originalText around the record's core theme.
// @Tags analyses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Analysis ID"
// @Param request body CopySuggestionsRequest true "Copy to rewrite"
// @Success 200 {object} CopySuggestionsResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /analyses/{id}/copy-suggestions [post]
func (h *AnalysisHandler) CopySuggestions(c echo.Context) error {
	id, herr := parseID(c.Param("id"))
	if herr != nil {
		return herr
	}
	var req CopySuggestionsRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return badRequest("Invalid request body", "INVALID_REQUEST")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest("originalText and suggestionType are required", "VALIDATION_ERROR")
	}

	suggestions, err := h.svc.CopySuggestions(c.Request().Context(), auth.CurrentUser(c), id, req.OriginalText, req.SuggestionType)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, CopySuggestionsResponse{Suggestions: suggestions})
}
