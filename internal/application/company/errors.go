package company

import "errors"

var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrInvalidUserID    = errors.New("invalid user id")
	ErrForbiddenOwner   = errors.New("only admins can assign companies to another owner")
	ErrDuplicateCompany = errors.New("company with this cnpj already exists")
	ErrCreateCompany    = errors.New("failed to create company")
	ErrListRoster       = errors.New("failed to list roster")
)
