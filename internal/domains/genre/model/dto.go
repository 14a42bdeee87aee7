package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type CreateGenreRequest struct {
	Name string `json:"name" binding:"required"`
}

func (r CreateGenreRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("genre name is required"),
			validation.Length(1, 100),
		),
	)
}

type UpdateGenreRequest struct {
	Name string `json:"name" binding:"required"`
}

func (r UpdateGenreRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("new genre name is required"),
			validation.Length(1, 100),
		),
	)
}
