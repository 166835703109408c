package segment

import "errors"

// ErrInvalidArgument marks every precondition failure of Merge and Subsample.
var ErrInvalidArgument = errors.New("invalid argument")
