package gate

import "errors"

// ErrUnauthorized is returned when the subject is missing, has no profile,
// lacks the permission or is refused by the resource policy.
var ErrUnauthorized = errors.New("unauthorized")
