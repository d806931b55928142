package domain

import (
	"fmt"
	"strings"

	apperrors "studylog/internal/platform/errors"
)

// Kind separates the study catalog (categories and materials) from the
// exercise catalog (exercise categories and exercises).
type Kind string

const (
	KindStudy    Kind = "study"
	KindExercise Kind = "exercise"
)

type ValueType string

const (
	ValueCount    ValueType = "count"
	ValueDuration ValueType = "duration"
)

type Category struct {
	ID     int64
	Kind   Kind
	Name   string
	Active bool
}

// Item is a material (KindStudy) or an exercise (KindExercise).
type Item struct {
	ID           int64
	Kind         Kind
	Name         string
	CategoryID   int64
	CategoryName string
	Active       bool
	ImageKey     string
	ValueType    ValueType
}

func (k Kind) Validate() error {
	switch k {
	case KindStudy, KindExercise:
		return nil
	default:
		return fmt.Errorf("%w: unsupported catalog kind %q", apperrors.ErrInvalidInput, string(k))
	}
}

// ItemNoun names an item of this kind in messages.
func (k Kind) ItemNoun() string {
	if k == KindExercise {
		return "exercise"
	}
	return "material"
}

func (k Kind) CategoryNoun() string {
	if k == KindExercise {
		return "exercise category"
	}
	return "category"
}

func (k Kind) RecordNoun() string {
	if k == KindExercise {
		return "exercise log"
	}
	return "session"
}

func (v ValueType) Validate() error {
	switch v {
	case ValueCount, ValueDuration:
		return nil
	default:
		return fmt.Errorf("%w: unsupported value type %q", apperrors.ErrInvalidInput, string(v))
	}
}

// NormalizeName trims name and rejects blank input.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", apperrors.ErrInvalidInput)
	}
	return name, nil
}

func (c Category) Validate() error {
	if err := c.Kind.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name is required", apperrors.ErrInvalidInput)
	}
	return nil
}

func (i Item) Validate() error {
	if err := i.Kind.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(i.Name) == "" {
		return fmt.Errorf("%w: name is required", apperrors.ErrInvalidInput)
	}
	if i.CategoryID <= 0 {
		return fmt.Errorf("%w: %s is required", apperrors.ErrInvalidInput, i.Kind.CategoryNoun())
	}
	if i.Kind == KindExercise {
		return i.ValueType.Validate()
	}
	return nil
}
