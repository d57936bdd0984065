package validation

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ImageRule restricts uploads to small jpeg and png files
type ImageRule struct {
	Extensions []string
	MIMETypes  []string
	MaxKB      int64
}

// DefaultImageRule accepts jpeg, png and jpg up to 2048 KB
func DefaultImageRule() ImageRule {
	return ImageRule{
		Extensions: []string{"jpeg", "png", "jpg"},
		MIMETypes:  []string{"image/jpeg", "image/png"},
		MaxKB:      2048,
	}
}

// Image checks an uploaded file against rule. content is rewound before returning.
func (v *Validator) Image(field, filename string, size int64, content io.ReadSeeker, rule ImageRule) error {
	label := Label(field)

	if size > rule.MaxKB*1024 {
		return &Error{Field: field, Message: fmt.Sprintf("The %s field must not be greater than %d kilobytes.", label, rule.MaxKB)}
	}

	typeErr := &Error{
		Field:   field,
		Message: fmt.Sprintf("The %s field must be a file of type: %s.", label, strings.Join(rule.Extensions, ", ")),
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if !contains(rule.Extensions, ext) {
		return typeErr
	}

	detected, err := mimetype.DetectReader(content)
	if err != nil {
		return fmt.Errorf("failed to detect %s type: %w", field, err)
	}
	if _, err := content.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to rewind %s: %w", field, err)
	}

	if !strings.HasPrefix(detected.String(), "image/") {
		return &Error{Field: field, Message: NotImageMessage(field)}
	}

	for _, allowed := range rule.MIMETypes {
		if detected.Is(allowed) {
			return nil
		}
	}
	return typeErr
}

// NotImageMessage is the message for a file field that holds something else
func NotImageMessage(field string) string {
	return fmt.Sprintf("The %s field must be an image.", Label(field))
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
