package future

import (
	apperrors "github.com/kbukum/asyncq/errors"
)

// ErrNilRejection is the error a future carries when Reject is called with nil.
var ErrNilRejection = apperrors.New(apperrors.ErrCodeInvalidArgument, "future rejected with a nil error")
