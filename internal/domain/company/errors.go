package company

import "errors"

var (
	ErrCompanyNotFound   = errors.New("company not found")
	ErrInvalidLogoFormat = errors.New("logo must be a PNG or JPEG image")
	ErrLogoTooLarge      = errors.New("logo exceeds the maximum upload size")
)
