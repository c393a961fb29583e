package companyimport

import (
	"fmt"
	"path/filepath"
	"strings"

	domain "github.com/leadflow/crm-import/internal/domain/company"
)

const DefaultMaxFileSize int64 = 10 << 20

var acceptedExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
	".xls":  true,
}

// CheckFile rejects an upload before it is parsed.
func CheckFile(filename string, size, maxSize int64) error {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	if size <= 0 {
		return domain.ErrEmptyFile
	}
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	if !acceptedExtensions[ext] {
		return fmt.Errorf("%w: %q (accepted: .csv, .xlsx, .xls)", domain.ErrUnsupportedFileType, ext)
	}
	if size > maxSize {
		return fmt.Errorf("%w: %d bytes (limit %d)", domain.ErrFileTooLarge, size, maxSize)
	}
	return nil
}
