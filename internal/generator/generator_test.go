package generator

import (
	"testing"

	"github.com/mcncl/castscan/internal/config"
	"github.com/mcncl/castscan/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateHeader(t *testing.T) {
	report := models.Report{
		FunctionCount: 3,
		Matched:       3,
		Functions: []models.FunctionDescriptor{
			{
				Name:         "main",
				ReturnType:   "int",
				Params:       []models.Param{{Type: "int", Name: "argc"}, {Type: "char * *", Name: "argv"}},
				HasParamList: true,
				Conditionals: 1,
			},
			{
				Name:         "count_words",
				ReturnType:   "unsigned int",
				Params:       []models.Param{{Type: "char *", Name: "s"}, {Type: "int [10]", Name: "buf"}},
				HasParamList: true,
				Conditionals: 2,
			},
			{Name: "reset", ReturnType: "void"},
		},
	}

	result, err := NewGenerator().GenerateHeader(report, "functions")
	require.NoError(t, err)

	expected := `/* Generated by castscan: 3 of 3 function definitions. */
#ifndef FUNCTIONS_H
#define FUNCTIONS_H

int main(int argc, char * * argv);                /* ifs: 1 */
unsigned int count_words(char * s, int [10] buf); /* ifs: 2 */
void reset(void);                                 /* ifs: 0 */

#endif /* FUNCTIONS_H */
`
	assert.Equal(t, expected, result)
}

func TestGenerateHeader_NoFunctions(t *testing.T) {
	result, err := NewGenerator().GenerateHeader(models.Report{}, "empty")
	require.NoError(t, err)

	expected := `/* Generated by castscan: 0 of 0 function definitions. */
#ifndef EMPTY_H
#define EMPTY_H

#endif /* EMPTY_H */
`
	assert.Equal(t, expected, result)
}

func TestGenerateHeader_UsesConfiguredSentinels(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Sentinels.NoName = "anonymous"
	cfg.Sentinels.UnknownReturn = "int"

	report := models.Report{
		FunctionCount: 1,
		Matched:       1,
		Functions:     []models.FunctionDescriptor{{HasParamList: true, Params: []models.Param{}}},
	}

	result, err := NewGeneratorWithConfig(cfg).GenerateHeader(report, "x")
	require.NoError(t, err)
	assert.Contains(t, result, "int anonymous(); /* ifs: 0 */\n")
}

func TestGenerateHeader_InvalidGuard(t *testing.T) {
	_, err := NewGenerator().GenerateHeader(models.Report{}, "!!!")
	assert.Error(t, err)
}

func TestGuardMacro(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "functions", expected: "FUNCTIONS_H"},
		{input: "", expected: "FUNCTIONS_H"},
		{input: "my-parser.c", expected: "MY_PARSER_C_H"},
		{input: "lexerState", expected: "LEXER_STATE_H"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, GuardMacro(tt.input))
		})
	}
}
