package codec

import (
	"bytes"
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"coursebook/internal/domain"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type elective struct{}

func (elective) SubjectTitle() string { return "elective" }
func (elective) SubjectCredits() int  { return 0 }

func newSubjectRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	for tag, sample := range domain.SubjectTypes() {
		require.NoError(t, reg.Register(tag, sample))
	}
	return reg
}

func testRoster() []domain.Student {
	created := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	instructor := "Hopper"
	return []domain.Student{
		{ID: 1, FirstName: "Ada", LastName: "Lovelace", Course: domain.NewCourse("Algebra I", 3), CreatedAt: created},
		{ID: 2, FirstName: "Alan", LastName: "Turing", Course: domain.Seminar{Topic: "Compilers", Sessions: 6, Credits: 2, Instructor: &instructor}, CreatedAt: created},
		{ID: 3, FirstName: "Edsger", LastName: "Dijkstra", CreatedAt: created},
	}
}

func TestJSONExporter(t *testing.T) {
	exp := NewJSONExporter(newSubjectRegistry(t))
	assert.Equal(t, "json", exp.Format())

	var buf bytes.Buffer
	require.NoError(t, exp.Export(testRoster(), &buf))

	var out struct {
		Students []struct {
			ID     int64 `json:"id"`
			Course *struct {
				Type  string          `json:"type"`
				Value json.RawMessage `json:"value"`
			} `json:"course"`
		} `json:"students"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out.Students, 3)

	require.NotNil(t, out.Students[0].Course)
	assert.Equal(t, domain.TagCourse, out.Students[0].Course.Type)
	assert.JSONEq(t, `{"name":"Algebra I","credits":3}`, string(out.Students[0].Course.Value))

	require.NotNil(t, out.Students[1].Course)
	assert.Equal(t, domain.TagSeminar, out.Students[1].Course.Type)

	assert.Nil(t, out.Students[2].Course)
}

func TestYAMLExporter(t *testing.T) {
	exp := NewYAMLExporter(newSubjectRegistry(t))
	assert.Equal(t, "yaml", exp.Format())

	var buf bytes.Buffer
	require.NoError(t, exp.Export(testRoster(), &buf))

	var out struct {
		Students []struct {
			ID        int64  `yaml:"id"`
			FirstName string `yaml:"first_name"`
			Course    *struct {
				Type  string         `yaml:"type"`
				Value map[string]any `yaml:"value"`
			} `yaml:"course"`
		} `yaml:"students"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out.Students, 3)

	assert.Equal(t, "Ada", out.Students[0].FirstName)
	require.NotNil(t, out.Students[0].Course)
	assert.Equal(t, domain.TagCourse, out.Students[0].Course.Type)
	assert.Equal(t, "Algebra I", out.Students[0].Course.Value["name"])
	assert.Equal(t, 3, out.Students[0].Course.Value["credits"])

	require.NotNil(t, out.Students[1].Course)
	assert.Equal(t, "Hopper", out.Students[1].Course.Value["instructor"])

	assert.Nil(t, out.Students[2].Course)
}

func TestCBORExporter(t *testing.T) {
	exp := NewCBORExporter(newSubjectRegistry(t))
	assert.Equal(t, "cbor", exp.Format())

	var first, second bytes.Buffer
	require.NoError(t, exp.Export(testRoster(), &first))
	require.NoError(t, exp.Export(testRoster(), &second))
	assert.Equal(t, first.Bytes(), second.Bytes(), "encoding must be deterministic")

	dec, err := cbor.DecOptions{DefaultMapType: reflect.TypeOf(map[string]any(nil))}.DecMode()
	require.NoError(t, err)

	var out struct {
		Students []struct {
			ID        int64  `cbor:"id"`
			LastName  string `cbor:"last_name"`
			CreatedAt string `cbor:"created_at"`
			Course    *struct {
				Type  string         `cbor:"type"`
				Value map[string]any `cbor:"value"`
			} `cbor:"course"`
		} `cbor:"students"`
	}
	require.NoError(t, dec.Unmarshal(first.Bytes(), &out))
	require.Len(t, out.Students, 3)

	assert.Equal(t, "Lovelace", out.Students[0].LastName)
	assert.Equal(t, "2024-05-01T09:30:00Z", out.Students[0].CreatedAt)
	require.NotNil(t, out.Students[0].Course)
	assert.Equal(t, domain.TagCourse, out.Students[0].Course.Type)
	assert.Equal(t, "Algebra I", out.Students[0].Course.Value["name"])

	require.NotNil(t, out.Students[1].Course)
	assert.Equal(t, "Hopper", out.Students[1].Course.Value["instructor"])
	assert.Nil(t, out.Students[2].Course)
}

func TestExportUnregisteredSubject(t *testing.T) {
	students := []domain.Student{{ID: 9, FirstName: "X", LastName: "Y", Course: elective{}}}

	err := NewJSONExporter(newSubjectRegistry(t)).Export(students, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrUnregisteredType)

	err = NewYAMLExporter(newSubjectRegistry(t)).Export(students, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrUnregisteredType)

	err = NewCBORExporter(newSubjectRegistry(t)).Export(students, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrUnregisteredType)
}
