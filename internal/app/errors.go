package service

import (
	"errors"

	"github.com/okian/tripfinder/internal/domain/catalog"
)

// Sentinel error kinds returned by Search.
var (
	ErrNotStarted    = errors.New("service not started")
	ErrSuperseded    = errors.New("search superseded by a newer request")
	ErrCanceled      = errors.New("search canceled by caller")
	ErrSearchFailed  = errors.New("search failed")
	ErrInvalidBudget = catalog.ErrInvalidBudget
)
