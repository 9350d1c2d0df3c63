package clients

import "errors"

// ErrNotFound indicates the client does not exist for this user.
var ErrNotFound = errors.New("client not found")
