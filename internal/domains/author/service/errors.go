package service

import "errors"

var (
	ErrActivationTokenAmbiguous = errors.New("activation token matches more than one author")
	ErrInvalidCredentials       = errors.New("invalid login or password")
	ErrNothingToUpdate          = errors.New("no field to update")
)
