package service

import (
	"context"
	"errors"
	"testing"

	"coursecatalog/internal/apperr"
	"coursecatalog/internal/model"
)

func TestByCategoryGroupsCourses(t *testing.T) {
	repo := newFakeCourseRepo()
	courseSvc := NewCourseService(repo, newTestValidator())
	catalogSvc := NewCatalogService(repo)

	py := validCourse("PY101")
	go101 := validCourse("GO101")
	go101.CourseName = "Go Basics"
	ml := validCourse("ML201")
	ml.Category = "Data Science"

	for _, c := range []*model.Course{py, go101, ml} {
		if _, err := courseSvc.CreateCourse(context.Background(), c); err != nil {
			t.Fatalf("create %s failed: %v", c.CourseCode, err)
		}
	}

	groups, err := catalogSvc.ByCategory(context.Background())
	if err != nil {
		t.Fatalf("ByCategory returned error: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 category groups, got %d", len(groups))
	}
	// Categories are sorted by name.
	if groups[0].Category != "Data Science" || groups[1].Category != "Programming" {
		t.Fatalf("unexpected category order: %s, %s", groups[0].Category, groups[1].Category)
	}
	if len(groups[1].Courses) != 2 {
		t.Fatalf("expected 2 programming courses, got %d", len(groups[1].Courses))
	}
	if groups[1].Courses[0].CourseCode != "PY101" || groups[1].Courses[1].CourseCode != "GO101" {
		t.Fatalf("courses out of insertion order: %+v", groups[1].Courses)
	}
}

func TestSummaryStatsSingleCourse(t *testing.T) {
	repo := newFakeCourseRepo()
	courseSvc := NewCourseService(repo, newTestValidator())
	catalogSvc := NewCatalogService(repo)

	if _, err := courseSvc.CreateCourse(context.Background(), validCourse("PY101")); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stats, err := catalogSvc.SummaryStats(context.Background())
	if err != nil {
		t.Fatalf("SummaryStats returned error: %v", err)
	}
	if stats.TotalCourses != 1 || stats.TotalStudents != 120 || stats.TotalCategories != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestSummaryStatsSumsStudents(t *testing.T) {
	repo := newFakeCourseRepo()
	courseSvc := NewCourseService(repo, newTestValidator())
	catalogSvc := NewCatalogService(repo)

	a := validCourse("PY101")
	b := validCourse("GO101")
	b.Students = 30
	c := validCourse("ML201")
	c.Category = "Data Science"
	c.Students = 50

	for _, course := range []*model.Course{a, b, c} {
		if _, err := courseSvc.CreateCourse(context.Background(), course); err != nil {
			t.Fatalf("create %s failed: %v", course.CourseCode, err)
		}
	}

	stats, err := catalogSvc.SummaryStats(context.Background())
	if err != nil {
		t.Fatalf("SummaryStats returned error: %v", err)
	}
	if stats.TotalCourses != 3 {
		t.Fatalf("expected 3 courses, got %d", stats.TotalCourses)
	}
	if stats.TotalStudents != 200 {
		t.Fatalf("expected 200 students, got %d", stats.TotalStudents)
	}
	if stats.TotalCategories != 2 {
		t.Fatalf("expected 2 categories, got %d", stats.TotalCategories)
	}
}

func TestDeletedCourseLeavesCatalog(t *testing.T) {
	repo := newFakeCourseRepo()
	courseSvc := NewCourseService(repo, newTestValidator())
	catalogSvc := NewCatalogService(repo)

	if _, err := courseSvc.CreateCourse(context.Background(), validCourse("PY101")); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := courseSvc.DeleteCourse(context.Background(), "PY101"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	groups, err := catalogSvc.ByCategory(context.Background())
	if err != nil {
		t.Fatalf("ByCategory returned error: %v", err)
	}
	for _, g := range groups {
		for _, c := range g.Courses {
			if c.CourseCode == "PY101" {
				t.Fatalf("deleted course still present in category %s", g.Category)
			}
		}
	}
}

func TestByCategorySurfacesStoreFailure(t *testing.T) {
	repo := newFakeCourseRepo()
	repo.failAll = apperr.Storage(errors.New("connection reset"))
	catalogSvc := NewCatalogService(repo)

	if _, err := catalogSvc.ByCategory(context.Background()); !errors.Is(err, apperr.ErrStorage) {
		t.Fatalf("expected storage failure to surface, got %v", err)
	}
}
