package models

// JSONValue is a generic type to represent any JSON value.
// This can be a string, json.Number, boolean, null, object, or array.
type JSONValue interface{}

// JSONObject represents a JSON object, which is a map of strings to JSONValues.
type JSONObject map[string]JSONValue

// JSONArray represents a JSON array, which is a slice of JSONValues.
type JSONArray []JSONValue

// NodeTypeKey is the field every pycparser-style AST node uses to name its
// grammar production.
const NodeTypeKey = "_nodetype"

// AST holds a decoded C syntax tree. The tree is never mutated after loading.
type AST struct {
	Root JSONValue
	// Size is the number of bytes the tree was decoded from, when known.
	Size int64
}

// Field returns v[key] when v is an object, nil otherwise.
func Field(v JSONValue, key string) JSONValue {
	obj, ok := v.(JSONObject)
	if !ok {
		return nil
	}
	return obj[key]
}

// StringField returns v[key] when v is an object and the value is a string.
func StringField(v JSONValue, key string) (string, bool) {
	s, ok := Field(v, key).(string)
	return s, ok
}

// NodeType returns the "_nodetype" tag of v.
func NodeType(v JSONValue) (string, bool) {
	return StringField(v, NodeTypeKey)
}

// Param is one reconstructed function parameter. Empty fields mean the
// value was absent or could not be reconstructed.
type Param struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// FunctionDescriptor describes one FuncDef node.
type FunctionDescriptor struct {
	Name       string
	ReturnType string
	Params     []Param
	// HasParamList is false when the declarator carried no parameter list,
	// which renders as "void".
	HasParamList bool
	Conditionals int
}

// Report is the outcome of analysing one AST.
type Report struct {
	// FunctionCount is the number of FuncDef nodes in "ext".
	FunctionCount int
	// Matched is the number of descriptors left after filtering.
	Matched   int
	Functions []FunctionDescriptor
}
