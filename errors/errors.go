package errors

import "fmt"

var (
	ErrRoomNotFound       = fmt.Errorf("room not found")
	ErrPasswordRequired   = fmt.Errorf("room is private, password required")
	ErrPasswordIncorrect  = fmt.Errorf("incorrect room password")
	ErrInvalidInput       = fmt.Errorf("invalid input")
	ErrEmptyMessage       = fmt.Errorf("message is empty")
	ErrDuplicateRequest   = fmt.Errorf("friend request already pending")
	ErrUserNotFound       = fmt.Errorf("user not found")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrInvalidCredentials = fmt.Errorf("invalid email or password")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity requirements")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrEmptyWords         = fmt.Errorf("no words have been found")
)
