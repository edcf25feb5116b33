package provider

import (
	"errors"

	"github.com/okian/tripfinder/internal/domain/model"
)

// Sentinel error kinds for provider calls.
var (
	ErrTransport = errors.New("provider transport failed")
	ErrStatus    = errors.New("provider returned non-2xx status")
	ErrDecode    = errors.New("provider payload malformed")
	ErrCanceled  = errors.New("provider call canceled")
)

// Reason maps a GetJSON error onto the degrade reason recorded with placeholder values.
func Reason(err error) model.DegradeReason {
	switch {
	case err == nil:
		return model.ReasonNone
	case errors.Is(err, ErrCanceled):
		return model.ReasonCanceled
	case errors.Is(err, ErrStatus):
		return model.ReasonHTTPStatus
	case errors.Is(err, ErrDecode):
		return model.ReasonDecode
	default:
		return model.ReasonTransport
	}
}

// HasCredential reports whether key is usable, i.e. neither empty nor the shipped placeholder.
func HasCredential(key, placeholder string) bool {
	return key != "" && key != placeholder
}
