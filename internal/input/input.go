// Package input reads an export file and extracts its JSON part.
package input

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// The marker that follows the JSON part of an export file
const Separator = "^^THIS IS A SEPARATOR^^"

var (
	ErrUnreadable  = errors.New("cannot open input file")
	ErrEncoding    = errors.New("input file is neither utf-8 nor latin-1 encoded")
	ErrNoSeparator = errors.New("input file does not contain required separator")
)

// Returns the input as UTF-8. Input that is not valid UTF-8
// is decoded as Latin-1.
func DecodeText(data []byte) ([]byte, error) {
	if utf8.Valid(data) {
		return data, nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	return decoded, nil
}

// Returns everything before the separator
func StripSeparator(text []byte) ([]byte, error) {
	before, _, found := bytes.Cut(text, []byte(Separator))
	if !found {
		return nil, ErrNoSeparator
	}
	return before, nil
}

// Reads the export file at path and returns its JSON part
func ReadExport(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrUnreadable, path, err)
	}

	text, err := DecodeText(data)
	if err != nil {
		return nil, err
	}

	return StripSeparator(text)
}
