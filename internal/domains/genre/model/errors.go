package model

import (
	"errors"
	"fmt"
)

var (
	ErrGenreNotFound   = errors.New("genre not found")
	ErrGenreNameExists = errors.New("genre name already exists")
)

// GenreInUseError rejects deleting a genre that active books still
// reference, reporting how many.
type GenreInUseError struct {
	ActiveBooks int
}

func (e *GenreInUseError) Error() string {
	return fmt.Sprintf("cannot delete genre: %d active books are still associated with this genre", e.ActiveBooks)
}
