package service

import "errors"

var (
	ErrNotFound     = errors.New("bid not found")
	ErrDuplicate    = errors.New("announcement number already exists")
	ErrInvalidInput = errors.New("invalid input")
)
