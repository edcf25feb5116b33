package catalog

import "errors"

// ErrInvalidBudget is returned for negative budgets.
var ErrInvalidBudget = errors.New("budget must be a non-negative number")
