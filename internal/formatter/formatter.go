package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mcncl/castscan/internal/config"
	"github.com/mcncl/castscan/internal/models"
	"gopkg.in/yaml.v3"
)

// Formatter renders analysis reports and owns sentinel substitution
type Formatter struct {
	config *config.Config
}

// NewFormatter creates a new Formatter instance with default configuration
func NewFormatter() *Formatter {
	return &Formatter{config: config.NewConfig()}
}

// NewFormatterWithConfig creates a new Formatter instance with custom configuration
func NewFormatterWithConfig(cfg *config.Config) *Formatter {
	return &Formatter{config: cfg}
}

// Format renders report in the configured output format
func (f *Formatter) Format(report models.Report) (string, error) {
	switch f.config.Output.Format {
	case config.FormatText, "":
		return f.FormatText(report), nil
	case config.FormatJSON:
		return f.FormatJSON(report)
	case config.FormatYAML:
		return f.FormatYAML(report)
	default:
		return "", fmt.Errorf("formatter does not support output format '%s'", f.config.Output.Format)
	}
}

// FormatText renders the human-readable report
func (f *Formatter) FormatText(report models.Report) string {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Total functions: %d", report.FunctionCount))
	if report.Matched != report.FunctionCount {
		buf.WriteString(fmt.Sprintf(" (showing %d)", report.Matched))
	}
	buf.WriteString("\n\n")

	for _, fn := range report.Functions {
		buf.WriteString(fmt.Sprintf("Function: %s\n", f.RenderName(fn)))
		buf.WriteString(fmt.Sprintf("  Return type: %s\n", f.RenderReturnType(fn)))
		buf.WriteString(fmt.Sprintf("  Parameters: (%s)\n", f.RenderParams(fn)))
		buf.WriteString(fmt.Sprintf("  If statements: %d\n\n", fn.Conditionals))
	}

	return buf.String()
}

// FormatJSON renders the report as indented JSON
func (f *Formatter) FormatJSON(report models.Report) (string, error) {
	data, err := json.MarshalIndent(f.document(report), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode JSON report: %w", err)
	}
	return string(data) + "\n", nil
}

// FormatYAML renders the report as YAML
func (f *Formatter) FormatYAML(report models.Report) (string, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(f.document(report)); err != nil {
		return "", fmt.Errorf("failed to encode YAML report: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("failed to encode YAML report: %w", err)
	}
	return buf.String(), nil
}

// RenderName returns the function name or the no-name sentinel
func (f *Formatter) RenderName(fn models.FunctionDescriptor) string {
	if fn.Name == "" {
		return f.config.Sentinels.NoName
	}
	return fn.Name
}

// RenderReturnType returns the return type or the unknown-return sentinel
func (f *Formatter) RenderReturnType(fn models.FunctionDescriptor) string {
	if fn.ReturnType == "" {
		return f.config.Sentinels.UnknownReturn
	}
	return fn.ReturnType
}

// RenderParams joins the parameters with ", ". A function without a
// parameter list renders as the void sentinel; an empty list renders empty.
func (f *Formatter) RenderParams(fn models.FunctionDescriptor) string {
	if !fn.HasParamList {
		return f.config.Sentinels.Void
	}

	parts := make([]string, 0, len(fn.Params))
	for _, p := range fn.Params {
		parts = append(parts, f.RenderParam(p))
	}
	return strings.Join(parts, ", ")
}

// RenderParam renders "type name", or the type alone for unnamed parameters
func (f *Formatter) RenderParam(p models.Param) string {
	paramType := p.Type
	if paramType == "" {
		paramType = f.config.Sentinels.UnknownParam
	}
	if p.Name == "" {
		return paramType
	}
	return paramType + " " + p.Name
}

// Signature renders a one-line C-like signature: "int main(int argc)"
func (f *Formatter) Signature(fn models.FunctionDescriptor) string {
	return fmt.Sprintf("%s %s(%s)", f.RenderReturnType(fn), f.RenderName(fn), f.RenderParams(fn))
}

// document builds the ordered json/yaml view of a report. Absent values are
// null rather than sentinels; "signature" carries the rendered form.
func (f *Formatter) document(report models.Report) orderedMap {
	functions := make([]orderedMap, 0, len(report.Functions))
	for _, fn := range report.Functions {
		var params []orderedMap
		if fn.HasParamList {
			params = make([]orderedMap, 0, len(fn.Params))
			for _, p := range fn.Params {
				params = append(params, f.object(
					"Type", nullable(p.Type),
					"Name", nullable(p.Name),
				))
			}
		}

		functions = append(functions, f.object(
			"Name", nullable(fn.Name),
			"ReturnType", nullable(fn.ReturnType),
			"Params", params,
			"HasParamList", fn.HasParamList,
			"Conditionals", fn.Conditionals,
			"Signature", f.Signature(fn),
		))
	}

	return f.object(
		"FunctionCount", report.FunctionCount,
		"Matched", report.Matched,
		"Functions", functions,
	)
}

// object pairs up field names and values, applying the configured key style.
func (f *Formatter) object(pairs ...interface{}) orderedMap {
	m := make(orderedMap, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		m = append(m, keyValue{Key: f.config.ReportKey(pairs[i].(string)), Value: pairs[i+1]})
	}
	return m
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

type keyValue struct {
	Key   string
	Value interface{}
}

// orderedMap is an object that keeps its keys in insertion order when
// encoded as JSON or YAML.
type orderedMap []keyValue

// MarshalJSON implements json.Marshaler
func (m orderedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(kv.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(kv.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML implements yaml.Marshaler
func (m orderedMap) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, kv := range m {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: kv.Key}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(kv.Value); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valueNode)
	}
	return node, nil
}
