package store

import "errors"

var (
	ErrPageNotFound     = errors.New("page not found")
	ErrContentNotFound  = errors.New("content not found")
	ErrTextNotFound     = errors.New("text not found")
	ErrImageNotFound    = errors.New("image not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrActorNotFound    = errors.New("actor not found")
)
