package wishlist

import (
	apperrors "github.com/xiebiao/gamesup/pkg/errors"
)

var (
	ErrInvalidUserID = apperrors.New(apperrors.ErrCodeInvalidParams, "invalid user id")
	ErrInvalidGameID = apperrors.New(apperrors.ErrCodeInvalidParams, "invalid game id")

	ErrAlreadyInWishlist = apperrors.New(apperrors.ErrCodeAlreadyInWishlist, "game is already in the wishlist")
	ErrNotInWishlist     = apperrors.New(apperrors.ErrCodeNotInWishlist, "game is not in the wishlist")
)

func NewAlreadyInWishlist(gameID uint) error {
	return apperrors.Newf(apperrors.ErrCodeAlreadyInWishlist, "game %d is already in the wishlist", gameID)
}

func NewNotInWishlist(gameID uint) error {
	return apperrors.Newf(apperrors.ErrCodeNotInWishlist, "game %d is not in the wishlist", gameID)
}
