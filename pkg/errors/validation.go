package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateName validates an address-book key (the YAML key selecting a client
// and its item set) given on the command line.
//
// Rules:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateOutputPath validates an output path given on the command line or
// in the configuration file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 1024 characters
//   - No null bytes or control characters
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 1024
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateFileName validates a file name derived from invoice data.
// It ensures the name is a simple basename without path components.
func ValidateFileName(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidPath, "file name cannot be empty")
	}

	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidPath, "file name cannot contain path separators")
	}

	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidPath, "file name cannot be a hidden file")
	}

	return nil
}

// invoiceIDRegex matches document identifiers such as F00120261018.
var invoiceIDRegex = regexp.MustCompile(`^[A-Z][0-9]{3,}[0-9]{8}$`)

// ValidateInvoiceID validates a document identifier produced by numbering.
func ValidateInvoiceID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "invoice id cannot be empty")
	}
	if !invoiceIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid invoice id: %q", id)
	}
	return nil
}

// ibanRegex matches the shape of an IBAN once spaces are removed.
var ibanRegex = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z0-9]{11,30}$`)

// ValidateIBAN checks the shape and the mod-97 checksum of an IBAN.
// Spaces are ignored, so "FR76 3000 6000 0112 3456 7890 189" is accepted.
func ValidateIBAN(iban string) error {
	compact := strings.ToUpper(strings.ReplaceAll(iban, " ", ""))
	if !ibanRegex.MatchString(compact) {
		return New(ErrCodeInvalidInput, "malformed IBAN: %q", iban)
	}

	rearranged := compact[4:] + compact[:4]
	remainder := 0
	for _, r := range rearranged {
		var v int
		switch {
		case r >= '0' && r <= '9':
			v = int(r - '0')
			remainder = (remainder*10 + v) % 97
		default:
			v = int(r-'A') + 10
			remainder = (remainder*100 + v) % 97
		}
	}
	if remainder != 1 {
		return New(ErrCodeInvalidInput, "IBAN checksum mismatch: %q", iban)
	}
	return nil
}
