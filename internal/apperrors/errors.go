package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the operation is blocked by another resource,
// e.g. deleting an account that journal entries still reference.
var ErrConflict = errors.New("operation conflicts with existing resources")

// ErrInvariant indicates a structural bookkeeping rule was broken, e.g. a
// journal entry whose debit and credit legs reference the same account.
var ErrInvariant = errors.New("bookkeeping invariant violated")

// ErrPersistence indicates a checkpoint write to the backing file failed.
// The in-memory state is unaffected; the next checkpoint trigger retries.
var ErrPersistence = errors.New("persistence checkpoint failed")
