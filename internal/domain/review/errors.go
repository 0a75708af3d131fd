package review

import (
	apperrors "github.com/xiebiao/gamesup/pkg/errors"
)

var (
	ErrReviewNotFound = apperrors.New(apperrors.ErrCodeReviewNotFound, "review not found")

	ErrInvalidReviewID = apperrors.New(apperrors.ErrCodeInvalidParams, "invalid review id")
	ErrInvalidUserID   = apperrors.New(apperrors.ErrCodeInvalidParams, "invalid user id")
	ErrInvalidGameID   = apperrors.New(apperrors.ErrCodeInvalidParams, "invalid game id")
	ErrInvalidRating   = apperrors.New(apperrors.ErrCodeInvalidRating, "rating must be between 1 and 5")
	ErrCommentTooLong  = apperrors.New(apperrors.ErrCodeInvalidParams, "comment is too long (max 2000 characters)")
)

// NewReviewNotFound review not found with id: N
func NewReviewNotFound(id uint) error {
	return apperrors.Newf(apperrors.ErrCodeReviewNotFound, "review not found with id: %d", id)
}
