package policies

import "errors"

// ErrNotFound indicates the policy does not exist for this user.
var ErrNotFound = errors.New("policy not found")
