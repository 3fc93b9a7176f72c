// Package patch applies JSON Patch requests to repository objects. Each
// resource registers definitions that match an operation and a path glob;
// Apply dispatches every operation of a request to the first match.
package patch

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/go-openapi/jsonpointer"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// JSON Patch operation names.
const (
	OpAdd     = "add"
	OpRemove  = "remove"
	OpReplace = "replace"
	OpMove    = "move"
	OpCopy    = "copy"
	OpTest    = "test"
)

var validOps = map[string]bool{
	OpAdd: true, OpRemove: true, OpReplace: true, OpMove: true, OpCopy: true, OpTest: true,
}

// Operation is one decoded JSON Patch operation.
type Operation struct {
	Op    string
	Path  string
	From  string
	Value *structpb.Value
}

// String renders the operation for logs and error messages.
func (o Operation) String() string {
	if o.From != "" {
		return fmt.Sprintf("%s %s from %s", o.Op, o.Path, o.From)
	}
	return o.Op + " " + o.Path
}

// Segments returns the decoded tokens of Path.
func (o Operation) Segments() []string {
	return segments(o.Path)
}

// FromSegments returns the decoded tokens of From.
func (o Operation) FromSegments() []string {
	return segments(o.From)
}

func segments(path string) []string {
	p, err := jsonpointer.New(path)
	if err != nil {
		return nil
	}
	return p.DecodedTokens()
}

// Decode parses a JSON Patch document.
func Decode(body []byte) ([]Operation, error) {
	doc, err := jsonpatch.DecodePatch(body)
	if err != nil {
		return nil, BadRequest("invalid patch document: %v", err)
	}
	out := make([]Operation, 0, len(doc))
	for i, raw := range doc {
		op := Operation{Op: raw.Kind()}
		if !validOps[op.Op] {
			return nil, BadRequest("operation %d: unknown op %q", i, op.Op)
		}
		if op.Path, err = raw.Path(); err != nil {
			return nil, BadRequest("operation %d: %v", i, err)
		}
		if _, ok := raw["from"]; ok {
			if op.From, err = raw.From(); err != nil {
				return nil, BadRequest("operation %d: %v", i, err)
			}
		}
		v, hasValue := raw["value"]
		if !hasValue && (op.Op == OpAdd || op.Op == OpReplace || op.Op == OpTest) {
			return nil, BadRequest("operation %d: %s requires a value", i, op.Op)
		}
		if hasValue && v != nil {
			op.Value = &structpb.Value{}
			if err := protojson.Unmarshal(*v, op.Value); err != nil {
				return nil, BadRequest("operation %d: value: %v", i, err)
			}
		}
		out = append(out, op)
	}
	return out, nil
}

// Encode renders ops as a JSON Patch document.
func Encode(ops []Operation) ([]byte, error) {
	type wire struct {
		Op    string          `json:"op"`
		Path  string          `json:"path"`
		From  string          `json:"from,omitempty"`
		Value json.RawMessage `json:"value,omitempty"`
	}
	out := make([]wire, 0, len(ops))
	for _, op := range ops {
		w := wire{Op: op.Op, Path: op.Path, From: op.From}
		if op.Value != nil {
			b, err := protojson.Marshal(op.Value)
			if err != nil {
				return nil, err
			}
			w.Value = b
		}
		out = append(out, w)
	}
	return json.Marshal(out)
}
