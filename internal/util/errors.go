package util

import "errors"

// Engine error taxonomy. All of these are caller-correctable; anything
// else bubbling out of a service is treated as a persistence fault.
var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrQuizNotFound      = errors.New("quiz not found")
	ErrAttemptNotFound   = errors.New("attempt not found")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrOptionNotFound    = errors.New("answer option not found")
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailRegistered   = errors.New("email already registered")
	ErrNoAccess          = errors.New("no access to this category")
	ErrTournamentClosed  = errors.New("tournament window is closed")
	ErrInvalidState      = errors.New("attempt is not accepting answers")
	ErrEmptySelection    = errors.New("no answers selected")
	ErrInvalidSelection  = errors.New("selected answers do not belong to target question")
	ErrAlreadyAnswered   = errors.New("question already answered in this attempt")
	ErrNoQuestion        = errors.New("no question available")
	ErrCategoryFree      = errors.New("this category is free")
	ErrAlreadyPurchased  = errors.New("category access already active")
	ErrActiveAttempt     = errors.New("an active attempt already exists")
	ErrInvalidCredential = errors.New("invalid credentials")
)
