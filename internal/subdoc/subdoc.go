package subdoc

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nodeforge/clashsub/internal/model"
	"gopkg.in/yaml.v3"
)

// Document is the typed view over a subscription document. Only the proxies
// sequence is interpreted; every node stays an opaque yaml.Node so unknown
// protocol fields survive the round trip with field order intact.
type Document struct {
	Proxies []*yaml.Node
}

type ParseError struct {
	AppError model.AppError
	Cause    error
}

func (e *ParseError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.AppError.Code, e.AppError.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.AppError.Code, e.AppError.Message, e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// Parse decodes a subscription document. The document must be a YAML mapping
// with a "proxies" sequence; anything else is a parse failure. Other
// top-level fields are ignored.
func Parse(text string) (*Document, error) {
	var root yaml.Node
	if err := yamlDecodeSingle(text, &root); err != nil {
		return nil, parseError("订阅 YAML 解析失败", text, err)
	}

	if root.Kind != yaml.DocumentNode || len(root.Content) != 1 {
		return nil, parseError("订阅文档为空", text, nil)
	}
	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, parseError("订阅文档顶层必须是 mapping", text, nil)
	}

	seq := mappingValue(top, "proxies")
	if seq == nil {
		return nil, parseError("订阅缺少 proxies 字段", text, nil)
	}
	if seq.Kind != yaml.SequenceNode {
		return nil, parseError("proxies 必须是序列", text, nil)
	}

	return &Document{Proxies: seq.Content}, nil
}

// NodeName returns the node's name field. A missing name key or a non-string
// value (null, number, ...) reports no name; that is not an error.
func NodeName(n *yaml.Node) (string, bool) {
	if n == nil || n.Kind != yaml.MappingNode {
		return "", false
	}
	v := mappingValue(n, "name")
	if v == nil || v.Kind != yaml.ScalarNode || v.Tag != "!!str" {
		return "", false
	}
	return v.Value, true
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		k := m.Content[i]
		if k.Kind == yaml.ScalarNode && k.Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func yamlDecodeSingle(content string, out *yaml.Node) error {
	dec := yaml.NewDecoder(strings.NewReader(content))
	if err := dec.Decode(out); err != nil {
		return err
	}

	// Reject multi-document YAML to keep behavior deterministic.
	var extra yaml.Node
	if err := dec.Decode(&extra); err == nil {
		return errors.New("multiple YAML documents are not allowed")
	} else if !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func parseError(msg, content string, cause error) *ParseError {
	return &ParseError{
		AppError: model.AppError{
			Code:    "SUB_PARSE_ERROR",
			Message: msg,
			Stage:   "parse_sub",
			Snippet: truncateSnippet(content, 200),
		},
		Cause: cause,
	}
}

func truncateSnippet(s string, max int) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", " ")
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	return s[:max]
}
