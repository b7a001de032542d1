package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"coursecatalog/internal/api/v1/dto"
	"coursecatalog/internal/apperr"
	"coursecatalog/internal/model"
	"coursecatalog/internal/service"

	"github.com/rs/zerolog"
)

// CourseHandler handles catalog and course-admin endpoints
type CourseHandler struct {
	courseService  service.CourseService
	catalogService service.CatalogService
	assetService   service.AssetService
	maxUploadBytes int64
	logger         zerolog.Logger
}

// NewCourseHandler creates a new CourseHandler
func NewCourseHandler(
	courseService service.CourseService,
	catalogService service.CatalogService,
	assetService service.AssetService,
	maxUploadBytes int64,
	logger zerolog.Logger,
) *CourseHandler {
	return &CourseHandler{
		courseService:  courseService,
		catalogService: catalogService,
		assetService:   assetService,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With().Str("handler", "CourseHandler").Logger(),
	}
}

// RegisterRoutes mounts catalog routes. The catalog listing is public; every
// mutating route and the stats endpoint run behind the auth gate.
func (h *CourseHandler) RegisterRoutes(mux *http.ServeMux, authMw, adminMw func(http.Handler) http.Handler) {
	protect := func(fn http.HandlerFunc) http.Handler { return authMw(adminMw(fn)) }

	mux.Handle("/courses/stats", protect(h.dashboardStats))
	mux.Handle("/courses/upload", protect(h.uploadAsset))
	mux.Handle("/courses/", protect(h.handleCourse))

	createCourse := protect(h.createCourse)
	mux.HandleFunc("/courses", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.listCatalog(w, r)
		case http.MethodPost:
			createCourse.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// listCatalog godoc
// @Summary List the course catalog
// @Description Returns every course grouped by category. Public, no auth.
// @Tags courses
// @Produce json
// @Success 200 {array} model.CategoryGroup
// @Failure 500 {object} dto.ErrorResponse
// @Router /courses [get]
func (h *CourseHandler) listCatalog(w http.ResponseWriter, r *http.Request) {
	groups, err := h.catalogService.ByCategory(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

// createCourse godoc
// @Summary Create a new course
// @Description Creates a catalog entry under a fresh course code.
// @Tags courses
// @Accept json
// @Produce json
// @Param course body model.Course true "Course document"
// @Success 201 {object} model.Course
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /courses [post]
func (h *CourseHandler) createCourse(w http.ResponseWriter, r *http.Request) {
	var course model.Course
	if err := json.NewDecoder(r.Body).Decode(&course); err != nil {
		h.writeError(w, &apperr.ValidationError{Fields: []apperr.FieldError{{Field: "body", Message: "invalid JSON payload"}}})
		return
	}
	created, err := h.courseService.CreateCourse(r.Context(), &course)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// updateCourse godoc
// @Summary Replace a course
// @Description Fully replaces the course stored under the given code.
// @Tags courses
// @Accept json
// @Produce json
// @Param courseCode path string true "Course code"
// @Param course body model.Course true "Full replacement document"
// @Success 200 {object} model.Course
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /courses/{courseCode} [put]
func (h *CourseHandler) updateCourse(w http.ResponseWriter, r *http.Request, code string) {
	var course model.Course
	if err := json.NewDecoder(r.Body).Decode(&course); err != nil {
		h.writeError(w, &apperr.ValidationError{Fields: []apperr.FieldError{{Field: "body", Message: "invalid JSON payload"}}})
		return
	}
	updated, err := h.courseService.UpdateCourse(r.Context(), code, &course)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// deleteCourse godoc
// @Summary Delete a course
// @Description Removes the course stored under the given code.
// @Tags courses
// @Produce json
// @Param courseCode path string true "Course code"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /courses/{courseCode} [delete]
func (h *CourseHandler) deleteCourse(w http.ResponseWriter, r *http.Request, code string) {
	if err := h.courseService.DeleteCourse(r.Context(), code); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Course deleted successfully"})
}

// uploadAsset godoc
// @Summary Upload a course image
// @Description Stores a course image or banner and returns its public URL.
// @Tags courses
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image payload"
// @Param purpose formData string false "image or banner" default(image)
// @Success 200 {object} dto.UploadResponse
// @Failure 413 {object} dto.ErrorResponse
// @Failure 415 {object} dto.ErrorResponse
// @Router /courses/upload [post]
func (h *CourseHandler) uploadAsset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, dto.ErrorResponse{
				Error: dto.ErrorDetail{Kind: "ValidationError", Message: "upload exceeds the size limit"},
			})
			return
		}
		h.writeError(w, &apperr.ValidationError{Fields: []apperr.FieldError{{Field: "body", Message: "invalid multipart payload"}}})
		return
	}

	purpose := r.FormValue("purpose")
	if purpose == "" {
		purpose = "image"
	}
	if purpose != "image" && purpose != "banner" {
		h.writeError(w, &apperr.ValidationError{Fields: []apperr.FieldError{{Field: "purpose", Message: "must be image or banner"}}})
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		h.writeError(w, &apperr.ValidationError{Fields: []apperr.FieldError{{Field: "image", Message: "file is required"}}})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.writeError(w, apperr.Storage(err))
		return
	}

	url, err := h.assetService.Upload(r.Context(), data, header.Header.Get("Content-Type"), purpose)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.UploadResponse{URL: url})
}

// dashboardStats godoc
// @Summary Dashboard summary stats
// @Description Totals over the whole catalog for the admin dashboard.
// @Tags courses
// @Produce json
// @Success 200 {object} model.SummaryStats
// @Router /courses/stats [get]
func (h *CourseHandler) dashboardStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	stats, err := h.catalogService.SummaryStats(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *CourseHandler) handleCourse(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimPrefix(r.URL.Path, "/courses/")
	if code == "" || strings.Contains(code, "/") {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodPut:
		h.updateCourse(w, r, code)
	case http.MethodDelete:
		h.deleteCourse(w, r, code)
	default:
		http.NotFound(w, r)
	}
}

// writeError maps a service error onto the wire taxonomy. Nothing is
// swallowed: unknown errors surface as a storage failure.
func (h *CourseHandler) writeError(w http.ResponseWriter, err error) {
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error: dto.ErrorDetail{Kind: "ValidationError", Message: verr.Error(), Fields: verr.Fields},
		})
	case errors.Is(err, apperr.ErrCodeMismatch):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error: dto.ErrorDetail{Kind: "KeyMismatch", Message: err.Error()},
		})
	case errors.Is(err, apperr.ErrDuplicateCourse):
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{
			Error: dto.ErrorDetail{Kind: "DuplicateKey", Message: err.Error()},
		})
	case errors.Is(err, apperr.ErrCourseNotFound):
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{
			Error: dto.ErrorDetail{Kind: "NotFound", Message: err.Error()},
		})
	case errors.Is(err, apperr.ErrUnsupportedMedia):
		writeJSON(w, http.StatusUnsupportedMediaType, dto.ErrorResponse{
			Error: dto.ErrorDetail{Kind: "UnsupportedMediaType", Message: err.Error()},
		})
	default:
		h.logger.Error().Err(err).Msg("Request failed")
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{
			Error: dto.ErrorDetail{Kind: "StorageFailure", Message: "the operation could not be completed"},
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
