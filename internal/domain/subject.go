package domain

// Storage tags for the concrete subject types
const (
	TagCourse  = "course.v1"
	TagSeminar = "seminar.v1"
)

// Subject is implemented by every type a student can be enrolled in
type Subject interface {
	SubjectTitle() string
	SubjectCredits() int
}

// Course is a regular credit-bearing course
type Course struct {
	Name    string `json:"name" yaml:"name"`
	Credits int    `json:"credits" yaml:"credits"`
}

// NewCourse creates a new course
func NewCourse(name string, credits int) Course {
	return Course{Name: name, Credits: credits}
}

func (c Course) SubjectTitle() string { return c.Name }
func (c Course) SubjectCredits() int  { return c.Credits }

// Seminar is a discussion-led subject; Instructor is nil until assigned
type Seminar struct {
	Topic      string  `json:"topic" yaml:"topic"`
	Sessions   int     `json:"sessions" yaml:"sessions"`
	Credits    int     `json:"credits" yaml:"credits"`
	Instructor *string `json:"instructor" yaml:"instructor"`
}

func (s Seminar) SubjectTitle() string { return s.Topic }
func (s Seminar) SubjectCredits() int  { return s.Credits }

// SubjectTypes returns a sample of every concrete subject keyed by its
// storage tag
func SubjectTypes() map[string]Subject {
	return map[string]Subject{
		TagCourse:  Course{},
		TagSeminar: Seminar{},
	}
}
