// Package render holds the presentation sinks that consume result batches.
//
// Sinks never mutate the batch they receive. An empty batch clears the display.
package render

import (
	"context"
	"errors"

	"github.com/okian/tripfinder/internal/domain/model"
)

// Sink consumes a complete result batch.
type Sink interface {
	Render(ctx context.Context, batch model.ResultBatch) error
}

// Multi renders a batch into every sink in order. All sinks are attempted;
// their errors are joined.
type Multi []Sink

// Render implements Sink.
func (m Multi) Render(ctx context.Context, batch model.ResultBatch) error {
	var errs []error
	for _, s := range m {
		if err := s.Render(ctx, batch); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
