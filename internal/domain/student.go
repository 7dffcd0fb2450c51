package domain

import (
	"errors"
	"strings"
	"time"
)

// Validation errors
var (
	ErrFirstNameRequired = errors.New("first name is required")
	ErrLastNameRequired  = errors.New("last name is required")
)

// Student is a stored student record
type Student struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Course    Subject   `json:"course"`
	CreatedAt time.Time `json:"created_at"`
}

// NewStudent creates a new student enrolled in course, which may be nil
func NewStudent(firstName, lastName string, course Subject) *Student {
	return &Student{
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Course:    course,
	}
}

// FullName returns "First Last"
func (s *Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// Validate checks the fields required before a student can be stored
func (s *Student) Validate() error {
	if strings.TrimSpace(s.FirstName) == "" {
		return ErrFirstNameRequired
	}
	if strings.TrimSpace(s.LastName) == "" {
		return ErrLastNameRequired
	}
	return nil
}
