package services

import "errors"

// ErrNotFound covers both a missing chat and an ownership mismatch; callers
// cannot distinguish "does not exist" from "isn't yours".
var ErrNotFound = errors.New("chat not found")
