package service

import (
	"fmt"

	"coursebook/internal/codec"
	"coursebook/internal/domain"
)

// NewSubjectRegistry returns a registry holding every concrete subject type
// under its storage tag
func NewSubjectRegistry() (*codec.Registry, error) {
	reg := codec.NewRegistry()
	for tag, sample := range domain.SubjectTypes() {
		if err := reg.Register(tag, sample); err != nil {
			return nil, fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return reg, nil
}
