package company

import "errors"

var (
	ErrDuplicateTaxID   = errors.New("tax id already exists")
	ErrNoPipelineStage  = errors.New("no pipeline stage configured")
	ErrPreviewNotFound  = errors.New("import preview not found")
	ErrAlreadySubmitted = errors.New("import preview already submitted")
)

// File-level import errors. Any of these aborts the import session.
var (
	ErrEmptyFile           = errors.New("file is empty")
	ErrFileTooLarge        = errors.New("file exceeds the maximum size")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrCorruptWorkbook     = errors.New("workbook could not be read")
	ErrNoSheets            = errors.New("workbook has no sheets")
	ErrNoRows              = errors.New("file has no header or data rows")
)
