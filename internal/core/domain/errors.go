package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidBuild indicates the build descriptor deviates from its fixed facts.
	ErrInvalidBuild = errors.New("invalid build descriptor")

	// Search Errors.

	// ErrNoSolution indicates a search space was fully explored without a goal.
	ErrNoSolution = errors.New("no solution")

	// ErrSearchExhausted indicates a search hit its node budget before finishing.
	ErrSearchExhausted = errors.New("search budget exhausted")

	// ACO Errors.

	// ErrIncompleteTour indicates no ant could complete a Hamiltonian cycle.
	ErrIncompleteTour = errors.New("no complete tour")

	// ErrTimeLimit indicates a time-boxed operation ran out of time
	// before evaluating anything.
	ErrTimeLimit = errors.New("time limit reached")

	// Storage Errors.

	// ErrStoreClosed indicates a store was used after Close.
	ErrStoreClosed = errors.New("store closed")
)
