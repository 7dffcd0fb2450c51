package repository

import (
	"context"
	"errors"

	"coursebook/internal/domain"
)

// ErrNotFound is returned by write operations that target a missing row
var ErrNotFound = errors.New("not found")

// Repository defines the interface for student data access
type Repository interface {
	// Read operations
	ListStudents(ctx context.Context) ([]domain.Student, error)
	GetStudent(ctx context.Context, id int64) (*domain.Student, error) // nil, nil when missing

	// Write operations
	CreateStudent(ctx context.Context, student *domain.Student) error
	DeleteStudent(ctx context.Context, id int64) error

	// Close releases resources
	Close() error
}
