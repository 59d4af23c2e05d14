package main

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mcncl/castscan/internal/config"
	"github.com/mcncl/castscan/internal/errors"
	"github.com/mcncl/castscan/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePath = "testdata/samples/functions.json"

func testContext() context.Context {
	return logging.Discard(context.Background())
}

func writeTemp(t *testing.T, pattern, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp("", pattern)
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Remove(tmpFile.Name()) })

	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, tmpFile.Close())
	return tmpFile.Name()
}

func TestRun_SampleToFile(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	outputPath := filepath.Join(t.TempDir(), "report.txt")
	CLI.Input = samplePath
	CLI.Output = outputPath

	err := run(testContext(), config.NewConfig())
	require.NoError(t, err)

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)

	expected := `Total functions: 3

Function: main
  Return type: int
  Parameters: (int argc, char * * argv)
  If statements: 1

Function: count_words
  Return type: unsigned int
  Parameters: (char * s, int [10] buf)
  If statements: 2

Function: reset
  Return type: void
  Parameters: (void)
  If statements: 0

`
	assert.Equal(t, expected, string(content))
}

func TestRun_HeaderGuardFromInputName(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	outputPath := filepath.Join(t.TempDir(), "functions.h")
	CLI.Input = samplePath
	CLI.Output = outputPath

	cfg := config.NewConfig()
	cfg.Output.Format = config.FormatHeader

	require.NoError(t, run(testContext(), cfg))

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "#ifndef FUNCTIONS_H\n")
	assert.Contains(t, string(content), "void reset(void);")
}

func TestRun_MissingExt(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Input = writeTemp(t, "no_ext_*.json", `{"_nodetype": "FileAST"}`)
	CLI.Output = filepath.Join(t.TempDir(), "never.txt")

	err := run(testContext(), config.NewConfig())
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrExtMissing))
	assert.Equal(t, "AST structure error: ext array missing", errors.UserFriendlyError(err))

	_, statErr := os.Stat(CLI.Output)
	assert.True(t, os.IsNotExist(statErr), "no report is written on a structure error")
}

func TestParseInput_FromFile(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Input = samplePath

	ast, err := parseInput()
	require.NoError(t, err)
	assert.NotNil(t, ast.Root)
	assert.Positive(t, ast.Size)
}

func TestParseInput_FromStdin(t *testing.T) {
	originalCLI := CLI
	originalStdin := os.Stdin
	defer func() {
		CLI = originalCLI
		os.Stdin = originalStdin
	}()

	CLI.Input = ""

	r, w, err := os.Pipe()
	require.NoError(t, err)

	go func() {
		defer func() { _ = w.Close() }()
		_, _ = w.WriteString(`{"ext": [{"_nodetype": "FuncDef"}]}`)
	}()

	os.Stdin = r

	ast, err := parseInput()
	require.NoError(t, err)
	assert.NotNil(t, ast.Root)
}

func TestParseInput_EmptyFile(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Input = writeTemp(t, "empty_*.json", "")

	_, err := parseInput()
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrFileEmpty))
}

func TestParseInput_InvalidJSON(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Input = writeTemp(t, "invalid_*.json", `{"ext": [`)

	_, err := parseInput()
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrInvalidJSON))
}

func TestParseInput_NonExistentFile(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Input = "/non/existent/ast.json"

	_, err := parseInput()
	require.Error(t, err)
	assert.Contains(t, errors.UserFriendlyError(err), "not found")
}

func TestWriteOutput_ToFile(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Output = filepath.Join(t.TempDir(), "out.txt")

	require.NoError(t, writeOutput("Total functions: 0\n\n"))

	content, err := os.ReadFile(CLI.Output)
	require.NoError(t, err)
	assert.Equal(t, "Total functions: 0\n\n", string(content))
}

func TestWriteOutput_FileError(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Output = "/non/existent/directory/report.txt"

	err := writeOutput("anything")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, &errors.AppError{Type: errors.ErrorTypeOutput}))
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Config = writeTemp(t, "castscan_*.yml", "output:\n  format: yaml\nfilter:\n  min_conditionals: 2\n")
	CLI.Format = "json"

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, config.FormatJSON, cfg.Output.Format)
	assert.Equal(t, 2, cfg.Filter.MinConditionals)
}

func TestLoadConfig_InvalidFlag(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Config = writeTemp(t, "castscan_*.yml", "output:\n  format: text\n")
	CLI.NamePattern = "[unclosed"

	_, err := loadConfig()
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, &errors.AppError{Type: errors.ErrorTypeConfig}))
}

func TestRender_Formats(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Input = samplePath
	tests := []struct {
		format   string
		contains string
	}{
		{format: config.FormatText, contains: "Parameters: (char * s, int [10] buf)"},
		{format: config.FormatJSON, contains: `"return_type": "unsigned int"`},
		{format: config.FormatYAML, contains: "return_type: unsigned int"},
		{format: config.FormatHeader, contains: "unsigned int count_words(char * s, int [10] buf);"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			cfg := config.NewConfig()
			cfg.Output.Format = tt.format

			outputPath := filepath.Join(t.TempDir(), "report")
			CLI.Output = outputPath
			require.NoError(t, run(testContext(), cfg))

			content, err := os.ReadFile(outputPath)
			require.NoError(t, err)
			assert.Contains(t, string(content), tt.contains)
		})
	}
}
