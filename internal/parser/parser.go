package parser

import (
	"encoding/json"
	stderrors "errors" // Standard errors package
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mcncl/jsonedit/internal/errors" // Custom errors package
	"github.com/mcncl/jsonedit/internal/models"
	"github.com/tidwall/gjson"
)

// Parse reads a single JSON document from reader. Object member order is
// preserved as written.
func Parse(reader io.Reader) (*models.Value, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.NewInputError("failed to read input", err)
	}
	return ParseBytes(data)
}

// ParseBytes parses one JSON document held in data.
func ParseBytes(data []byte) (*models.Value, error) {
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}
	if !gjson.Valid(text) {
		return nil, syntaxError(text)
	}
	return fromResult(gjson.Parse(text)), nil
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (*models.Value, error) {
	if strings.TrimSpace(jsonString) == "" {
		return nil, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return ParseBytes([]byte(jsonString))
}

// ParseValue parses user-entered value text, as typed into an edit dialog.
func ParseValue(text string) (*models.Value, error) {
	v, err := ParseBytes([]byte(text))
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("value %q is not valid JSON", abbreviate(text, 40)), err)
	}
	return v, nil
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string) (*models.Value, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	data, err := ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return ParseBytes(data)
}

// ReadFile reads the raw bytes of a document, mapping the common failures to
// input errors.
func ReadFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	if len(data) == 0 {
		return nil, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}
	return data, nil
}

// fromResult converts a validated gjson result into the document model.
func fromResult(r gjson.Result) *models.Value {
	switch r.Type {
	case gjson.Null:
		return models.NewNull()
	case gjson.False:
		return models.NewBool(false)
	case gjson.True:
		return models.NewBool(true)
	case gjson.Number:
		return models.NewNumber(r.Raw)
	case gjson.String:
		return models.NewString(r.Str)
	}

	if r.IsArray() {
		arr := models.NewArray()
		r.ForEach(func(_, elem gjson.Result) bool {
			arr.Append(fromResult(elem))
			return true
		})
		return arr
	}

	obj := models.NewObject()
	r.ForEach(func(key, member gjson.Result) bool {
		// Duplicate keys keep the first position and the last value
		obj.SetField(key.Str, fromResult(member))
		return true
	})
	return obj
}

// syntaxError locates the first syntax error for the message. gjson only
// reports validity, so the offset comes from encoding/json.
func syntaxError(text string) error {
	var scratch any
	err := json.Unmarshal([]byte(text), &scratch)
	var syntaxErr *json.SyntaxError
	if stderrors.As(err, &syntaxErr) {
		return errors.NewParsingError(
			fmt.Sprintf("JSON syntax error at offset %d", syntaxErr.Offset),
			errors.ErrInvalidJSON,
		)
	}
	if stderrors.Is(err, io.ErrUnexpectedEOF) {
		return errors.NewParsingError("unexpected end of JSON input", errors.ErrInvalidJSON)
	}
	return errors.NewParsingError("failed to decode JSON", errors.ErrInvalidJSON)
}

func abbreviate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
