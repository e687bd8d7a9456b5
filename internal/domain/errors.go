package domain

import "errors"

var (
	// ErrAlreadyAnswered is returned when an answer is submitted twice for the same question.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrNotAnswered is returned when advancing past a question that has no answer yet.
	ErrNotAnswered = errors.New("question not answered yet")
	// ErrChoiceOutOfRange indicates a submitted option index does not exist.
	ErrChoiceOutOfRange = errors.New("choice out of range")
	// ErrInvalidBank indicates the question bank cannot drive a quiz.
	ErrInvalidBank = errors.New("invalid question bank")
	// ErrBankNotFound indicates the bank content could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
)
