package service

import (
	"context"
	"sort"

	"coursecatalog/internal/model"
	"coursecatalog/internal/repository"
)

// CatalogService is the read side of the catalog: grouping for the public
// site and totals for the dashboard. Both are recomputed from a fresh store
// snapshot on every call, so a completed mutation is visible to the very next
// read.
type CatalogService interface {
	// ByCategory groups the stored courses by their category
	ByCategory(ctx context.Context) ([]model.CategoryGroup, error)
	// SummaryStats computes the dashboard totals over the whole catalog
	SummaryStats(ctx context.Context) (*model.SummaryStats, error)
}

type catalogService struct {
	repo repository.CourseRepository
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(repo repository.CourseRepository) CatalogService {
	return &catalogService{repo: repo}
}

// ByCategory groups courses by category. Categories are sorted by name so the
// response is stable; courses keep the store snapshot order within a group.
func (s *catalogService) ByCategory(ctx context.Context) ([]model.CategoryGroup, error) {
	courses, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}

	byCategory := map[string][]model.Course{}
	for _, c := range courses {
		byCategory[c.Category] = append(byCategory[c.Category], c)
	}

	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([]model.CategoryGroup, 0, len(names))
	for _, name := range names {
		groups = append(groups, model.CategoryGroup{Category: name, Courses: byCategory[name]})
	}
	return groups, nil
}

// SummaryStats computes the dashboard totals over the whole catalog
func (s *catalogService) SummaryStats(ctx context.Context) (*model.SummaryStats, error) {
	courses, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}

	stats := &model.SummaryStats{TotalCourses: len(courses)}
	categories := map[string]struct{}{}
	for _, c := range courses {
		stats.TotalStudents += int64(c.Students)
		categories[c.Category] = struct{}{}
	}
	stats.TotalCategories = len(categories)
	return stats, nil
}
