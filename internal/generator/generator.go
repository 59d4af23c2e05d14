package generator

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/mcncl/castscan/internal/config"
	"github.com/mcncl/castscan/internal/formatter"
	"github.com/mcncl/castscan/internal/models"
)

// DefaultGuard is used when no include guard name is given.
const DefaultGuard = "functions"

// Generator is responsible for generating C prototype headers from analysis results
type Generator struct {
	formatter *formatter.Formatter
}

// NewGenerator creates a new Generator instance
func NewGenerator() *Generator {
	return &Generator{formatter: formatter.NewFormatter()}
}

// NewGeneratorWithConfig creates a new Generator that uses cfg's sentinels
func NewGeneratorWithConfig(cfg *config.Config) *Generator {
	return &Generator{formatter: formatter.NewFormatterWithConfig(cfg)}
}

// GenerateHeader writes one prototype per reported function, in report order,
// wrapped in an include guard derived from guard.
func (g *Generator) GenerateHeader(report models.Report, guard string) (string, error) {
	macro := GuardMacro(guard)
	if macro == "_H" {
		return "", fmt.Errorf("include guard '%s' has no usable characters", guard)
	}

	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("/* Generated by castscan: %d of %d function definitions. */\n",
		report.Matched, report.FunctionCount))
	buf.WriteString(fmt.Sprintf("#ifndef %s\n", macro))
	buf.WriteString(fmt.Sprintf("#define %s\n", macro))

	prototypes := make([]string, 0, len(report.Functions))
	maxWidth := 0
	for _, fn := range report.Functions {
		prototype := g.formatter.Signature(fn) + ";"
		if len(prototype) > maxWidth {
			maxWidth = len(prototype)
		}
		prototypes = append(prototypes, prototype)
	}

	if len(prototypes) > 0 {
		buf.WriteString("\n")
	}
	for i, prototype := range prototypes {
		buf.WriteString(fmt.Sprintf("%-*s /* ifs: %d */\n", maxWidth, prototype, report.Functions[i].Conditionals))
	}

	buf.WriteString(fmt.Sprintf("\n#endif /* %s */\n", macro))

	return buf.String(), nil
}

// GuardMacro turns a name such as "my-parser.c" into "MY_PARSER_C_H".
func GuardMacro(guard string) string {
	if strings.TrimSpace(guard) == "" {
		guard = DefaultGuard
	}

	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return ' '
		}
	}, guard)

	return strcase.ToScreamingSnake(strings.TrimSpace(cleaned)) + "_H"
}
