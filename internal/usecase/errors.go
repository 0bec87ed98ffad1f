package usecase

import (
	"errors"
	"fmt"

	"github.com/fadilmartias/hiring-assistant/internal/repository"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// ParseError is returned when the model answered but its output could not
// be read. Raw holds the answer as received.
type ParseError struct {
	What string
	Raw  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse %s from model output", e.What)
}

func lookupErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}
