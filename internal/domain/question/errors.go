package question

import "errors"

var (
	ErrNotFound          = errors.New("question: not found")
	ErrInvalidDifficulty = errors.New("question: invalid difficulty")
)
