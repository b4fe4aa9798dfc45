package validator

import (
	"fmt"
	"mime"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minEmailLength    = 3
	maxEmailLength    = 255
	maxTitleLen       = 255
	maxNameLen        = 255
	maxFileNameLen    = 255
	maxMessageLen     = 10000
	maxContentTypeLen = 255
	currencyCodeLen   = 3
	asciiControlStart = 32
	asciiDelete       = 127

	errEmailEmptyFmt           = "email cannot be empty"
	errEmailLengthFmt          = "email must be between %d and %d characters"
	errEmailInvalidFmt         = "invalid email format"
	errRequiredFmt             = "%s cannot be empty"
	errMaxLengthFmt            = "%s must not exceed %d characters"
	errControlCharsFmt         = "%s cannot contain control characters"
	errFileNameEmptyFmt        = "file name cannot be empty"
	errFileNameMaxLengthFmt    = "file name must not exceed %d characters"
	errFileNamePathSepFmt      = "file name cannot contain path separators"
	errFileNameControlCharsFmt = "file name cannot contain control characters"
	errContentTypeMaxLengthFmt = "content type must not exceed %d characters"
	errContentTypeInvalidFmt   = "invalid content type"
	errFileSizeEmptyFmt        = "file is empty"
	errFileSizeMaxFmt          = "file size exceeds maximum of %d bytes"
	errCurrencyFmt             = "currency must be a %d-letter ISO code"
	errAmountNegativeFmt       = "%s cannot be negative"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)
)

func Email(email string) error {
	if email == "" {
		return fmt.Errorf(errEmailEmptyFmt)
	}

	if len(email) < minEmailLength || len(email) > maxEmailLength {
		return fmt.Errorf(errEmailLengthFmt, minEmailLength, maxEmailLength)
	}

	if !emailRegex.MatchString(email) {
		return fmt.Errorf(errEmailInvalidFmt)
	}

	return nil
}

// Title checks a required single-line label such as a project or job title.
func Title(field, value string) error {
	return line(field, value, maxTitleLen)
}

// Name is Title for people and companies.
func Name(field, value string) error {
	return line(field, value, maxNameLen)
}

func line(field, value string, max int) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf(errRequiredFmt, field)
	}

	if utf8.RuneCountInString(value) > max {
		return fmt.Errorf(errMaxLengthFmt, field, max)
	}

	for _, char := range value {
		if char < asciiControlStart || char == asciiDelete {
			return fmt.Errorf(errControlCharsFmt, field)
		}
	}

	return nil
}

// Message checks free text; newlines are allowed.
func Message(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf(errRequiredFmt, field)
	}

	if utf8.RuneCountInString(value) > maxMessageLen {
		return fmt.Errorf(errMaxLengthFmt, field, maxMessageLen)
	}

	return nil
}

func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf(errRequiredFmt, field)
	}
	return nil
}

func FileName(name string) error {
	if name == "" {
		return fmt.Errorf(errFileNameEmptyFmt)
	}

	if len(name) > maxFileNameLen {
		return fmt.Errorf(errFileNameMaxLengthFmt, maxFileNameLen)
	}

	if strings.Contains(name, "..") || strings.Contains(name, "/") || strings.Contains(name, "\\") {
		return fmt.Errorf(errFileNamePathSepFmt)
	}

	for _, char := range name {
		if char < asciiControlStart || char == asciiDelete {
			return fmt.Errorf(errFileNameControlCharsFmt)
		}
	}

	return nil
}

func FileSize(size, max int64) error {
	if size <= 0 {
		return fmt.Errorf(errFileSizeEmptyFmt)
	}

	if max > 0 && size > max {
		return fmt.Errorf(errFileSizeMaxFmt, max)
	}

	return nil
}

func ContentType(contentType string) error {
	if contentType == "" {
		return nil
	}

	if len(contentType) > maxContentTypeLen {
		return fmt.Errorf(errContentTypeMaxLengthFmt, maxContentTypeLen)
	}

	if _, _, err := mime.ParseMediaType(contentType); err != nil {
		return fmt.Errorf(errContentTypeInvalidFmt)
	}

	return nil
}

func Currency(code string) error {
	if !currencyRegex.MatchString(code) {
		return fmt.Errorf(errCurrencyFmt, currencyCodeLen)
	}
	return nil
}

func NonNegative(field string, amount float64) error {
	if amount < 0 {
		return fmt.Errorf(errAmountNegativeFmt, field)
	}
	return nil
}
