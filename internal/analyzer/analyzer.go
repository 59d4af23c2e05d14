package analyzer

import (
	"context"
	"strings"

	"github.com/mcncl/castscan/internal/config"
	"github.com/mcncl/castscan/internal/errors"
	"github.com/mcncl/castscan/internal/logging"
	"github.com/mcncl/castscan/internal/models"
)

// pycparser node types the analyzer understands
const (
	NodeIf             = "If"
	NodeFuncDef        = "FuncDef"
	NodeIdentifierType = "IdentifierType"
	NodeTypeDecl       = "TypeDecl"
	NodePtrDecl        = "PtrDecl"
	NodeArrayDecl      = "ArrayDecl"
)

// Analyzer extracts function descriptors from a C AST
type Analyzer struct {
	// config holds configuration settings for analysis
	config *config.Config
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		config: config.NewConfig(),
	}
}

// NewAnalyzerWithConfig creates a new Analyzer instance with custom configuration.
func NewAnalyzerWithConfig(cfg *config.Config) *Analyzer {
	return &Analyzer{
		config: cfg,
	}
}

// Analyze extracts every function definition of ast and applies the
// configured filter. FunctionCount always reflects the unfiltered count.
func (a *Analyzer) Analyze(ctx context.Context, ast models.AST) (models.Report, error) {
	log := logging.Ctx(ctx)

	count, functions, err := ExtractFunctions(ast.Root)
	if err != nil {
		return models.Report{}, err
	}
	log.DebugContext(ctx, "extracted function definitions", "count", count)

	report := models.Report{
		FunctionCount: count,
		Functions:     make([]models.FunctionDescriptor, 0, len(functions)),
	}
	for _, fn := range functions {
		if !a.keep(fn) {
			log.DebugContext(ctx, "function filtered out", "name", fn.Name, "conditionals", fn.Conditionals)
			continue
		}
		log.DebugContext(ctx, "function",
			"name", fn.Name,
			"return_type", fn.ReturnType,
			"params", len(fn.Params),
			"conditionals", fn.Conditionals,
		)
		report.Functions = append(report.Functions, fn)
	}
	report.Matched = len(report.Functions)

	return report, nil
}

func (a *Analyzer) keep(fn models.FunctionDescriptor) bool {
	if fn.Conditionals < a.config.Filter.MinConditionals {
		return false
	}
	return a.config.Filter.MatchesName(fn.Name)
}

// ExtractFunctions returns the number of FuncDef nodes in root's "ext" array
// and one descriptor per FuncDef, in array order. A missing or non-array
// "ext" is the only error; every other malformation degrades to empty
// fields on the descriptor.
func ExtractFunctions(root models.JSONValue) (int, []models.FunctionDescriptor, error) {
	ext, ok := asArray(models.Field(root, "ext"))
	if !ok {
		return 0, nil, errors.NewStructureError("ext array missing")
	}

	functions := make([]models.FunctionDescriptor, 0)
	for _, item := range ext {
		if nodeType, ok := models.NodeType(item); !ok || nodeType != NodeFuncDef {
			continue
		}
		functions = append(functions, describeFunction(item))
	}

	return len(functions), functions, nil
}

// describeFunction builds the descriptor of a single FuncDef node.
func describeFunction(funcDef models.JSONValue) models.FunctionDescriptor {
	decl := models.Field(funcDef, "decl")
	name, _ := models.StringField(decl, "name")

	// decl.type is the FuncDecl; its own "type" is the return type declarator.
	funcDecl := models.Field(decl, "type")
	params, hasParamList := extractParams(models.Field(funcDecl, "args"))

	return models.FunctionDescriptor{
		Name:         name,
		ReturnType:   ReconstructType(models.Field(funcDecl, "type")),
		Params:       params,
		HasParamList: hasParamList,
		Conditionals: CountConditionals(models.Field(funcDef, "body")),
	}
}

// extractParams reads a ParamList node. The boolean is false when there is
// no usable parameter list at all.
func extractParams(args models.JSONValue) ([]models.Param, bool) {
	if args == nil {
		return nil, false
	}
	list, ok := asArray(models.Field(args, "params"))
	if !ok {
		return nil, false
	}

	params := make([]models.Param, 0, len(list))
	for _, p := range list {
		name, _ := models.StringField(p, "name")
		params = append(params, models.Param{
			Type: ReconstructType(models.Field(p, "type")),
			Name: name,
		})
	}
	return params, true
}

// CountConditionals returns the number of If nodes anywhere within node,
// node itself included.
func CountConditionals(node models.JSONValue) int {
	switch v := node.(type) {
	case models.JSONObject:
		return countObject(v)
	case models.JSONArray:
		return countArray(v)
	default:
		return 0
	}
}

func countObject(obj models.JSONObject) int {
	count := 0
	for key, value := range obj {
		if key == models.NodeTypeKey {
			if tag, ok := value.(string); ok && tag == NodeIf {
				count++
			}
		}
		count += CountConditionals(value)
	}
	return count
}

func countArray(arr models.JSONArray) int {
	count := 0
	for _, element := range arr {
		count += CountConditionals(element)
	}
	return count
}

// ReconstructType flattens a declarator chain into C type text, e.g.
// "char *" or "int [10]". Unknown or missing nodes end the chain and
// contribute nothing, so the result may be empty.
func ReconstructType(node models.JSONValue) string {
	var b strings.Builder
	writeType(&b, node)
	return b.String()
}

// writeType appends the inner declarator before the node's own suffix, so
// suffixes accumulate innermost first.
func writeType(b *strings.Builder, node models.JSONValue) {
	nodeType, ok := models.NodeType(node)
	if !ok {
		return
	}

	switch nodeType {
	case NodeIdentifierType:
		names, _ := asArray(models.Field(node, "names"))
		parts := make([]string, 0, len(names))
		for _, name := range names {
			if s, ok := name.(string); ok {
				parts = append(parts, s)
			}
		}
		b.WriteString(strings.Join(parts, " "))
	case NodeTypeDecl:
		writeType(b, models.Field(node, "type"))
	case NodePtrDecl:
		writeType(b, models.Field(node, "type"))
		b.WriteString(" *")
	case NodeArrayDecl:
		writeType(b, models.Field(node, "type"))
		b.WriteString(" [")
		if dim, ok := models.StringField(node, "dim"); ok {
			b.WriteString(dim)
		}
		b.WriteString("]")
	}
	// FuncDecl (function pointers) and other declarators are not rendered.
}

func asArray(v models.JSONValue) (models.JSONArray, bool) {
	arr, ok := v.(models.JSONArray)
	return arr, ok
}
