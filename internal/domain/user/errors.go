package user

import (
	apperrors "github.com/xiebiao/gamesup/pkg/errors"
)

// NewUserNotFound user not found with id: N
func NewUserNotFound(id uint) error {
	return apperrors.Newf(apperrors.ErrCodeUserNotFound, "user not found with id: %d", id)
}
