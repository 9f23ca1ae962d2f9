package service

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrEventNotFound         = errors.New("event not found")
	ErrOrderNotFound         = errors.New("order not found")
	ErrPhotoNotFound         = errors.New("photo not found")
	ErrPhotoNotInOrder       = errors.New("photo is not part of this order")
	ErrEmptySelection        = errors.New("no photos selected")
	ErrInvalidPassword       = errors.New("invalid download password")
	ErrDownloadLocked        = errors.New("download is locked")
	ErrPasswordNotApplicable = errors.New("download passwords are only issued for offline orders")
	ErrPasswordAlreadyIssued = errors.New("download password already issued")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrUnauthorized          = errors.New("unauthorized")
)

// notFound translates gorm's missing-row error into the given domain error.
func notFound(err, domainErr error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainErr
	}
	return err
}
