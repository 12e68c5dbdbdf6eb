package storage

import "errors"

// ErrSubmissionNotFound is returned when a journal lookup finds no record.
var ErrSubmissionNotFound = errors.New("submission not found")
