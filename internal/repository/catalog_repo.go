package repository

import (
	"context"
	"fmt"

	"course_insights/internal/model"

	"github.com/jackc/pgx/v5"
)

// CatalogRepository is the read side of the catalog tables
type CatalogRepository interface {
	ListDepts(ctx context.Context) ([]model.Dept, error)
	ListCourses(ctx context.Context) ([]model.Course, error)
	ListInstructors(ctx context.Context) ([]model.Instructor, error)
	ListPastInstances(ctx context.Context) ([]model.PastInstance, error)
	ListNewInstances(ctx context.Context) ([]model.NewInstance, error)
	ListInstructorCourseStats(ctx context.Context) ([]model.InstructorCourseStat, error)
}

type catalogRepository struct {
	db DBTX
}

// NewCatalogRepository creates a new CatalogRepository
func NewCatalogRepository(db DBTX) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListDepts(ctx context.Context) ([]model.Dept, error) {
	return listAll[model.Dept](ctx, r.db, "dept",
		`SELECT dept_id, title, gpa, past_classes, unique_classes, new_classes FROM dept ORDER BY dept_id`)
}

func (r *catalogRepository) ListCourses(ctx context.Context) ([]model.Course, error) {
	return listAll[model.Course](ctx, r.db, "course",
		`SELECT course_id, dept, title, credits, gpa, enrollment, withdraw, past_classes, new_classes
         FROM course ORDER BY course_id`)
}

func (r *catalogRepository) ListInstructors(ctx context.Context) ([]model.Instructor, error) {
	return listAll[model.Instructor](ctx, r.db, "instructor",
		`SELECT instructor_id, last_name, dept, gpa, enrollment, withdraw, past_classes, new_classes
         FROM instructor ORDER BY instructor_id`)
}

func (r *catalogRepository) ListPastInstances(ctx context.Context) ([]model.PastInstance, error) {
	return listAll[model.PastInstance](ctx, r.db, "past_instance",
		`SELECT instance_id, course_id, instructor_id, year, term, crn, gpa, withdraw, enrollment
         FROM past_instance ORDER BY instance_id`)
}

func (r *catalogRepository) ListNewInstances(ctx context.Context) ([]model.NewInstance, error) {
	return listAll[model.NewInstance](ctx, r.db, "new_instance",
		`SELECT crn, dept, course_id, instructor_id, title, modality, credits, capacity, days, start_time, end_time, location
         FROM new_instance ORDER BY crn`)
}

func (r *catalogRepository) ListInstructorCourseStats(ctx context.Context) ([]model.InstructorCourseStat, error) {
	return listAll[model.InstructorCourseStat](ctx, r.db, "instructor_course_stats",
		`SELECT stat_id, course_id, instructor_id, gpa, enrollment, withdraw, past_classes
         FROM instructor_course_stats ORDER BY stat_id`)
}

// listAll runs a fetch-all query and maps rows onto T by db tag
func listAll[T any](ctx context.Context, db DBTX, table, sql string) ([]T, error) {
	rows, err := db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, fmt.Errorf("failed to collect %s rows: %w", table, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
