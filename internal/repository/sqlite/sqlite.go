package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"coursebook/internal/codec"
	"coursebook/internal/domain"
	"coursebook/internal/repository"

	_ "modernc.org/sqlite"
)

// Repository implements repository.Repository using SQLite
type Repository struct {
	db      *sql.DB
	courses *codec.Attribute[domain.Subject]
	logger  *slog.Logger
}

var _ repository.Repository = (*Repository)(nil)

// New opens (or creates) the database at dbPath. ":memory:" opens a
// private in-memory database.
func New(dbPath string, courses *codec.Attribute[domain.Subject], logger *slog.Logger) (*Repository, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", dataSourceName(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	repo := &Repository{db: db, courses: courses, logger: logger}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func dataSourceName(dbPath string) string {
	if dbPath == ":memory:" {
		return dbPath
	}
	return "file:" + dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS student (
		student_id INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		course TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_student_last_name ON student(last_name);
	`

	_, err := r.db.Exec(schema)
	return err
}

// ListStudents returns every student ordered by id
func (r *Repository) ListStudents(ctx context.Context) ([]domain.Student, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+studentColumns+` FROM student ORDER BY student_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	students := make([]domain.Student, 0)
	for rows.Next() {
		var row studentRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		student, err := row.toDomain(r.courses)
		if err != nil {
			return nil, err
		}
		students = append(students, *student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating students: %w", err)
	}

	return students, nil
}

// GetStudent retrieves a single student by ID; nil if it does not exist
func (r *Repository) GetStudent(ctx context.Context, id int64) (*domain.Student, error) {
	var row studentRow
	err := r.db.QueryRowContext(ctx,
		`SELECT `+studentColumns+` FROM student WHERE student_id = ?`, id,
	).Scan(row.scanArgs()...)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query student: %w", err)
	}

	return row.toDomain(r.courses)
}

// CreateStudent inserts a student and sets its ID. CreatedAt defaults to
// now when unset.
func (r *Repository) CreateStudent(ctx context.Context, student *domain.Student) error {
	if student.CreatedAt.IsZero() {
		student.CreatedAt = time.Now().UTC()
	}

	args, err := studentInsertArgs(student, r.courses)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO student (first_name, last_name, course, created_at)
		VALUES (?, ?, ?, ?)
	`, args...)
	if err != nil {
		return fmt.Errorf("failed to insert student: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read student id: %w", err)
	}
	student.ID = id

	r.logger.Debug("student stored", "student_id", id, "has_course", student.Course != nil)
	return nil
}

// DeleteStudent removes a student
func (r *Repository) DeleteStudent(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM student WHERE student_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("student %d: %w", id, repository.ErrNotFound)
	}
	return nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}
