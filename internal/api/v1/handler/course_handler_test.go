package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coursecatalog/internal/api/v1/dto"
	"coursecatalog/internal/apperr"
	"coursecatalog/internal/middleware"
	"coursecatalog/internal/model"
	"coursecatalog/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

const testSecret = "handler-test-secret"

type fakeCourseService struct {
	createCalls int
	deleteErr   error
}

func (f *fakeCourseService) CreateCourse(ctx context.Context, c *model.Course) (*model.Course, error) {
	f.createCalls++
	c.Normalize()
	return c, nil
}

func (f *fakeCourseService) UpdateCourse(ctx context.Context, code string, c *model.Course) (*model.Course, error) {
	c.Normalize()
	return c, nil
}

func (f *fakeCourseService) DeleteCourse(ctx context.Context, code string) error {
	return f.deleteErr
}

type fakeCatalogService struct {
	groups []model.CategoryGroup
	stats  model.SummaryStats
}

func (f *fakeCatalogService) ByCategory(ctx context.Context) ([]model.CategoryGroup, error) {
	return f.groups, nil
}

func (f *fakeCatalogService) SummaryStats(ctx context.Context) (*model.SummaryStats, error) {
	stats := f.stats
	return &stats, nil
}

type fakeAssetService struct {
	url string
	err error
}

func (f *fakeAssetService) Upload(ctx context.Context, data []byte, declaredType, purpose string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func newTestMux(course *fakeCourseService, catalog *fakeCatalogService, asset *fakeAssetService) *http.ServeMux {
	h := NewCourseHandler(course, catalog, asset, 5<<20, zerolog.Nop())
	mux := http.NewServeMux()
	h.RegisterRoutes(mux, middleware.AuthMiddleware(testSecret, zerolog.Nop()), middleware.AdminOnly(zerolog.Nop()))
	return mux
}

func adminToken(t *testing.T) string {
	t.Helper()
	claims := util.Claims{
		IsAdmin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestCreateCourseWithoutCredential(t *testing.T) {
	course := &fakeCourseService{}
	mux := newTestMux(course, &fakeCatalogService{}, &fakeAssetService{})

	body := bytes.NewBufferString(`{"category":"Programming","courseCode":"PY101","courseName":"Python Basics"}`)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/courses", body))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if course.createCalls != 0 {
		t.Fatal("unauthenticated request must be rejected before any validation or persistence")
	}
}

func TestCreateCourseAsAdmin(t *testing.T) {
	course := &fakeCourseService{}
	mux := newTestMux(course, &fakeCatalogService{}, &fakeAssetService{})

	body := bytes.NewBufferString(`{"category":"Programming","courseCode":"PY101","courseName":"Python Basics","students":120}`)
	req := httptest.NewRequest(http.MethodPost, "/courses", body)
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if course.createCalls != 1 {
		t.Fatalf("expected 1 create call, got %d", course.createCalls)
	}

	var created model.Course
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.CourseCode != "PY101" || created.Skills == nil {
		t.Fatalf("unexpected created course: %+v", created)
	}
}

func TestCreateCourseInvalidJSON(t *testing.T) {
	mux := newTestMux(&fakeCourseService{}, &fakeCatalogService{}, &fakeAssetService{})

	req := httptest.NewRequest(http.MethodPost, "/courses", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if body.Error.Kind != "ValidationError" {
		t.Fatalf("expected ValidationError, got %s", body.Error.Kind)
	}
}

func TestListCatalogIsPublic(t *testing.T) {
	catalog := &fakeCatalogService{groups: []model.CategoryGroup{
		{Category: "Programming", Courses: []model.Course{{CourseCode: "PY101", Category: "Programming", CourseName: "Python Basics"}}},
	}}
	mux := newTestMux(&fakeCourseService{}, catalog, &fakeAssetService{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/courses", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 without credential, got %d", rec.Code)
	}
	var groups []model.CategoryGroup
	if err := json.NewDecoder(rec.Body).Decode(&groups); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(groups) != 1 || groups[0].Category != "Programming" {
		t.Fatalf("unexpected catalog: %+v", groups)
	}
}

func TestDeleteMissingCourse(t *testing.T) {
	course := &fakeCourseService{deleteErr: apperr.ErrCourseNotFound}
	mux := newTestMux(course, &fakeCatalogService{}, &fakeAssetService{})

	req := httptest.NewRequest(http.MethodDelete, "/courses/PY101", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var body dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if body.Error.Kind != "NotFound" {
		t.Fatalf("expected NotFound, got %s", body.Error.Kind)
	}
}

func TestDeleteCourseAck(t *testing.T) {
	mux := newTestMux(&fakeCourseService{}, &fakeCatalogService{}, &fakeAssetService{})

	req := httptest.NewRequest(http.MethodDelete, "/courses/PY101", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body dto.MessageResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Message == "" {
		t.Fatal("expected a non-empty acknowledgment message")
	}
}

func TestDashboardStatsRequiresAdmin(t *testing.T) {
	catalog := &fakeCatalogService{stats: model.SummaryStats{TotalCourses: 1, TotalStudents: 120, TotalCategories: 1}}
	mux := newTestMux(&fakeCourseService{}, catalog, &fakeAssetService{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/courses/stats", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without credential, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/courses/stats", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var stats model.SummaryStats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("failed to decode stats: %v", err)
	}
	if stats.TotalCourses != 1 || stats.TotalStudents != 120 || stats.TotalCategories != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func newMultipart(t *testing.T, buf *bytes.Buffer, purpose string) string {
	t.Helper()
	w := multipart.NewWriter(buf)
	part, err := w.CreateFormFile("image", "cover.png")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)); err != nil {
		t.Fatalf("failed to write payload: %v", err)
	}
	if err := w.WriteField("purpose", purpose); err != nil {
		t.Fatalf("failed to write purpose field: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}
	return w.FormDataContentType()
}

func TestUploadRejectsBadPurpose(t *testing.T) {
	mux := newTestMux(&fakeCourseService{}, &fakeCatalogService{}, &fakeAssetService{url: "https://cdn.example.com/x.png"})

	var buf bytes.Buffer
	mw := newMultipart(t, &buf, "thumbnail")
	req := httptest.NewRequest(http.MethodPost, "/courses/upload", &buf)
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	req.Header.Set("Content-Type", mw)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad purpose, got %d", rec.Code)
	}
}

func TestUploadReturnsURL(t *testing.T) {
	mux := newTestMux(&fakeCourseService{}, &fakeCatalogService{}, &fakeAssetService{url: "https://cdn.example.com/assets/image/x.png"})

	var buf bytes.Buffer
	mw := newMultipart(t, &buf, "image")
	req := httptest.NewRequest(http.MethodPost, "/courses/upload", &buf)
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	req.Header.Set("Content-Type", mw)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body dto.UploadResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.URL != "https://cdn.example.com/assets/image/x.png" {
		t.Fatalf("unexpected URL: %s", body.URL)
	}
}
