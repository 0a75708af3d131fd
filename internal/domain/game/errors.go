package game

import (
	apperrors "github.com/xiebiao/gamesup/pkg/errors"
)

var (
	ErrGameNotFound = apperrors.ErrGameNotFound

	ErrSlugDuplicate = apperrors.ErrSlugDuplicate

	ErrInvalidTitle = apperrors.New(apperrors.ErrCodeInvalidParams, "title is required (max 200 characters)")

	ErrInvalidPrice = apperrors.New(apperrors.ErrCodeInvalidPrice, "price must be between 0 and 99999999.99 with at most 2 decimals")

	ErrInvalidCurrency = apperrors.New(apperrors.ErrCodeInvalidCurrency, "currency must be a 3-letter code")
)

// NewGameNotFound game not found with id: N
func NewGameNotFound(id uint) error {
	return apperrors.Newf(apperrors.ErrCodeGameNotFound, "game not found with id: %d", id)
}
