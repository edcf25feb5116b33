package api

import (
	"errors"
	"fmt"

	"github.com/okian/tripfinder/internal/adapters/render"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrRateLimited = errors.New("rate limited")
	ErrSuperseded  = errors.New("superseded")
	ErrCanceled    = errors.New("canceled")
	ErrInternal    = errors.New(render.GenericErrorText)
)

// NewKind tags kind with the operation that produced it.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind tags kind with op and keeps err in the chain.
func WrapKind(op string, kind, err error) error {
	if err == nil {
		return NewKind(op, kind)
	}
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}
