package models

import "errors"

var (
	ErrUnauthorized  = errors.New("unauthorized or invalid token")
	ErrTokenExpired  = errors.New("token expired")
	ErrUserNotFound  = errors.New("user not found")
	ErrUserExists    = errors.New("user already existed")
	ErrWrongPassword = errors.New("invalid password")
	ErrInvalidRole   = errors.New("invalid role")
	ErrInvalidParams = errors.New("invalid parameters")
)

var (
	ErrClassNotFound   = errors.New("class not found")
	ErrNotClassTeacher = errors.New("not class teacher")
	ErrNotEnrolled     = errors.New("not enrolled in class")
	ErrNotAStudent     = errors.New("user is not a student")
	ErrAlreadyEnrolled = errors.New("student already in class")
)

var (
	ErrSessionConflict = errors.New("attendance session already active")
	ErrNoActiveSession = errors.New("no active attendance session")
	ErrForbiddenEvent  = errors.New("event not allowed for role")
	ErrInvalidStatus   = errors.New("invalid attendance status")
)

var (
	ErrDatabaseConnection = errors.New("database connection error")
	ErrDatabaseQuery      = errors.New("database query error")
	ErrDatabaseInsert     = errors.New("database insert error")
	ErrDatabaseUpdate     = errors.New("database update error")
	ErrSummaryNotFound    = errors.New("no finalized summary for class")
)

var (
	ErrRedisGet = errors.New("redis get error")
	ErrRedisSet = errors.New("redis set error")
)
