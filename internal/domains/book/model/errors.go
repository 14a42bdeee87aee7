package model

import "errors"

var (
	ErrBookNotFound   = errors.New("book not found")
	ErrTitleExists    = errors.New("book with this title already exists")
	ErrGenreNotFound  = errors.New("genre not found")
	ErrNoUpdateFields = errors.New("no update data provided")
)
