package extractions

import "errors"

// ErrNotFound indicates the extraction does not exist for this user.
var ErrNotFound = errors.New("extraction not found")

// ErrPersistence indicates the summary was produced but could not be saved.
// Callers still get the summary; history just will not show it.
var ErrPersistence = errors.New("extraction could not be saved")
