package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/mentora-api/internal/models"
)

const (
	courseColumns = `id, user_id, name, description, instructor, location, color, created_at, updated_at`
	blockColumns  = `id, course_id, day, start_time, end_time, position`
)

// CourseRepository persists courses and their weekly blocks.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// ListByUser returns every course of a user with blocks attached, oldest first.
func (r *CourseRepository) ListByUser(ctx context.Context, userID string) ([]models.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses WHERE user_id = $1 ORDER BY created_at ASC, id ASC`, courseColumns)
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, userID); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	if len(courses) == 0 {
		return []models.Course{}, nil
	}

	ids := make([]string, 0, len(courses))
	for _, course := range courses {
		ids = append(ids, course.ID)
	}
	blocks, err := r.listBlocks(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range courses {
		courses[i].Blocks = blocks[courses[i].ID]
		if courses[i].Blocks == nil {
			courses[i].Blocks = []models.TimeBlock{}
		}
	}
	return courses, nil
}

// FindByID returns a course with its blocks. sql.ErrNoRows is returned untouched.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses WHERE id = $1`, courseColumns)
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	blocks, err := r.listBlocks(ctx, []string{course.ID})
	if err != nil {
		return nil, err
	}
	course.Blocks = blocks[course.ID]
	if course.Blocks == nil {
		course.Blocks = []models.TimeBlock{}
	}
	return &course, nil
}

func (r *CourseRepository) listBlocks(ctx context.Context, courseIDs []string) (map[string][]models.TimeBlock, error) {
	query := fmt.Sprintf(`SELECT %s FROM course_blocks WHERE course_id = ANY($1) ORDER BY course_id, position ASC`, blockColumns)
	var blocks []models.TimeBlock
	if err := r.db.SelectContext(ctx, &blocks, query, pq.Array(courseIDs)); err != nil {
		return nil, fmt.Errorf("list course blocks: %w", err)
	}
	grouped := make(map[string][]models.TimeBlock, len(courseIDs))
	for _, block := range blocks {
		grouped[block.CourseID] = append(grouped[block.CourseID], block)
	}
	return grouped, nil
}

// Create inserts the course and its blocks in one transaction, assigning ids.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) (err error) {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create course: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertCourse = `INSERT INTO courses (id, user_id, name, description, instructor, location, color, created_at, updated_at)
		VALUES (:id, :user_id, :name, :description, :instructor, :location, :color, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, insertCourse, course); err != nil {
		return fmt.Errorf("insert course: %w", err)
	}
	if err = insertBlocks(ctx, tx, course); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create course: %w", err)
	}
	return nil
}

// Update overwrites the course fields and replaces its whole block set.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) (err error) {
	course.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update course: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const updateCourse = `UPDATE courses SET name = :name, description = :description, instructor = :instructor,
		location = :location, color = :color, updated_at = :updated_at WHERE id = :id`
	if _, err = tx.NamedExecContext(ctx, updateCourse, course); err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM course_blocks WHERE course_id = $1`, course.ID); err != nil {
		return fmt.Errorf("clear course blocks: %w", err)
	}
	if err = insertBlocks(ctx, tx, course); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update course: %w", err)
	}
	return nil
}

func insertBlocks(ctx context.Context, tx *sqlx.Tx, course *models.Course) error {
	const insertBlock = `INSERT INTO course_blocks (id, course_id, day, start_time, end_time, position)
		VALUES (:id, :course_id, :day, :start_time, :end_time, :position)`
	for i := range course.Blocks {
		block := &course.Blocks[i]
		block.ID = uuid.NewString()
		block.CourseID = course.ID
		block.Position = i
		if _, err := tx.NamedExecContext(ctx, insertBlock, block); err != nil {
			return fmt.Errorf("insert course block: %w", err)
		}
	}
	return nil
}

// DeleteByUser removes every course of a user; blocks cascade.
func (r *CourseRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete courses: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete courses rows affected: %w", err)
	}
	return affected, nil
}
