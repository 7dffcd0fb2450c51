package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStudent(t *testing.T) {
	t.Run("trims names", func(t *testing.T) {
		s := NewStudent("  Ada ", " Lovelace", nil)

		assert.Equal(t, "Ada", s.FirstName)
		assert.Equal(t, "Lovelace", s.LastName)
		assert.Nil(t, s.Course)
		assert.Zero(t, s.ID)
	})

	t.Run("keeps course", func(t *testing.T) {
		s := NewStudent("Ada", "Lovelace", NewCourse("Algebra I", 3))

		require.NotNil(t, s.Course)
		assert.Equal(t, "Algebra I", s.Course.SubjectTitle())
		assert.Equal(t, 3, s.Course.SubjectCredits())
	})
}

func TestStudentValidate(t *testing.T) {
	tests := []struct {
		name    string
		student *Student
		wantErr error
	}{
		{"valid", NewStudent("Ada", "Lovelace", nil), nil},
		{"missing first name", &Student{LastName: "Lovelace"}, ErrFirstNameRequired},
		{"blank first name", &Student{FirstName: "   ", LastName: "Lovelace"}, ErrFirstNameRequired},
		{"missing last name", &Student{FirstName: "Ada"}, ErrLastNameRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.student.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestStudentFullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", NewStudent("Ada", "Lovelace", nil).FullName())
	assert.Equal(t, "Ada", (&Student{FirstName: "Ada"}).FullName())
}

func TestSubjectTypes(t *testing.T) {
	types := SubjectTypes()

	require.Len(t, types, 2)
	assert.IsType(t, Course{}, types[TagCourse])
	assert.IsType(t, Seminar{}, types[TagSeminar])
}

func TestSeminarSubject(t *testing.T) {
	instructor := "Hopper"
	var s Subject = Seminar{Topic: "Compilers", Sessions: 8, Credits: 2, Instructor: &instructor}

	assert.Equal(t, "Compilers", s.SubjectTitle())
	assert.Equal(t, 2, s.SubjectCredits())
}
