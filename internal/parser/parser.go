package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	stderrors "errors"

	"github.com/mcncl/castscan/internal/errors"
	"github.com/mcncl/castscan/internal/models"
)

// Parse decodes a single JSON document from reader into an AST.
func Parse(reader io.Reader) (models.AST, error) {
	decoder := json.NewDecoder(reader)
	decoder.UseNumber()

	var rootValue models.JSONValue
	if err := decoder.Decode(&rootValue); err != nil {
		if stderrors.Is(err, io.EOF) {
			return models.AST{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		var syntaxError *json.SyntaxError
		if stderrors.As(err, &syntaxError) {
			return models.AST{}, errors.NewParsingError(
				fmt.Sprintf("JSON syntax error at offset %d", syntaxError.Offset),
				errors.ErrInvalidJSON,
			)
		}
		if stderrors.Is(err, io.ErrUnexpectedEOF) {
			return models.AST{}, errors.NewParsingError("unexpected end of JSON input", errors.ErrInvalidJSON)
		}
		return models.AST{}, errors.NewParsingError("failed to decode JSON", err)
	}

	// Only whitespace may follow the root value.
	if decoder.More() {
		var trailingValue interface{}
		if err := decoder.Decode(&trailingValue); err != nil {
			if !stderrors.Is(err, io.EOF) {
				return models.AST{}, errors.NewParsingError("invalid trailing data after first JSON value", err)
			}
		} else {
			return models.AST{}, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
		}
	}

	return models.AST{
		Root: normalizeJSONValue(rootValue),
		Size: decoder.InputOffset(),
	}, nil
}

// normalizeJSONValue converts raw decoder output into model types
func normalizeJSONValue(val models.JSONValue) models.JSONValue {
	switch v := val.(type) {
	case map[string]interface{}:
		obj := make(models.JSONObject, len(v))
		for key, value := range v {
			obj[key] = normalizeJSONValue(value)
		}
		return obj
	case []interface{}:
		arr := make(models.JSONArray, len(v))
		for i, value := range v {
			arr[i] = normalizeJSONValue(value)
		}
		return arr
	default:
		return v
	}
}

// ParseString parses an AST from a string
func ParseString(jsonString string) (models.AST, error) {
	if strings.TrimSpace(jsonString) == "" {
		return models.AST{}, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(jsonString))
}

// ParseFile parses an AST from a file path
func ParseFile(filePath string) (models.AST, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.AST{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.AST{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.AST{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	stat, err := file.Stat()
	if err != nil {
		return models.AST{}, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return models.AST{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	ast, err := Parse(file)
	if err != nil {
		return models.AST{}, err
	}
	ast.Size = stat.Size()
	return ast, nil
}
