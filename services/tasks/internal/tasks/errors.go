package tasks

import "errors"

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskAlreadyCompleted = errors.New("task already completed")
	ErrDuplicateQRCode      = errors.New("qr code already assigned")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionExpired       = errors.New("session expired")
	ErrInvalidTransition    = errors.New("invalid submission transition")
	ErrSubmissionInFlight   = errors.New("submission already in flight")
	ErrNameRequired         = errors.New("please enter your name to confirm")
	ErrPhotoRequired        = errors.New("photo is required")
	ErrUploadFailed         = errors.New("photo upload failed")
)
