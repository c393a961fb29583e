package companyimport

import "errors"

var (
	ErrNothingToSubmit = errors.New("no valid records to submit")
	ErrLoadRoster      = errors.New("failed to load roster")
	ErrSavePreview     = errors.New("failed to save import preview")
)

var (
	ErrForbiddenOwner = errors.New("only admins can assign an import to another owner")
	ErrInvalidOwner   = errors.New("default owner must be a valid UUID")
)
