// Package convert runs the classify→synthesize→serialize→compact pipeline
// for one subscription document. Every call is self-contained: no I/O, no
// logging, no state shared between invocations.
package convert

import (
	"bytes"
	"fmt"

	"github.com/nodeforge/clashsub/internal/classify"
	"github.com/nodeforge/clashsub/internal/compact"
	"github.com/nodeforge/clashsub/internal/model"
	"github.com/nodeforge/clashsub/internal/subdoc"
	"github.com/nodeforge/clashsub/internal/synth"
	"gopkg.in/yaml.v3"
)

type Policy string

const (
	// PolicyFixed groups by the static region table and emits
	// include-all/filter load-balance groups, no settings block.
	PolicyFixed Policy = "fixed"
	// PolicyHeuristic derives region tags from node names and emits
	// explicit member lists plus a hardcoded settings block.
	PolicyHeuristic Policy = "heuristic"
)

type Options struct {
	Policy Policy // default PolicyHeuristic

	// NoCompact disables the shared-reference text pass on the serialized
	// output.
	NoCompact bool
}

func (o Options) withDefaults() Options {
	if o.Policy == "" {
		o.Policy = PolicyHeuristic
	}
	return o
}

// SerializeError means the assembled document could not be rendered. That is
// a defect in this program, not in user input.
type SerializeError struct {
	AppError model.AppError
	Cause    error
}

func (e *SerializeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.AppError.Code, e.AppError.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.AppError.Code, e.AppError.Message, e.Cause)
}

func (e *SerializeError) Unwrap() error { return e.Cause }

// outputConfig is the emitted document. Settings fields are zero (and thus
// omitted) under the fixed policy. Field order here is output order.
type outputConfig struct {
	Port               int    `yaml:"port,omitempty"`
	SocksPort          int    `yaml:"socks-port,omitempty"`
	AllowLAN           bool   `yaml:"allow-lan,omitempty"`
	Mode               string `yaml:"mode,omitempty"`
	LogLevel           string `yaml:"log-level,omitempty"`
	ExternalController string `yaml:"external-controller,omitempty"`

	Proxies     []*yaml.Node  `yaml:"proxies"`
	ProxyGroups []model.Group `yaml:"proxy-groups"`
	Rules       []string      `yaml:"rules"`
}

// Convert rewrites one subscription document into a routed client
// configuration. It either fully succeeds or returns exactly one error;
// partial output is never produced.
func Convert(text string, opt Options) (string, error) {
	opt = opt.withDefaults()

	doc, err := subdoc.Parse(text)
	if err != nil {
		return "", err
	}

	// Unnamed nodes are passed through but never grouped.
	names := make([]string, 0, len(doc.Proxies))
	namedIdx := make([]int, 0, len(doc.Proxies))
	for i, n := range doc.Proxies {
		if name, ok := subdoc.NodeName(n); ok {
			names = append(names, name)
			namedIdx = append(namedIdx, i)
		}
	}

	var out outputConfig
	switch opt.Policy {
	case PolicyFixed:
		strategy := classify.Fixed()
		regions := strategy.ActiveRegions(names)
		out = outputConfig{
			Proxies:     doc.Proxies,
			ProxyGroups: synth.FixedGroups(names, regions),
			Rules:       synth.FixedRules(),
		}
	case PolicyHeuristic:
		cls := classify.Heuristic().Classify(names)
		out = outputConfig{
			Port:               7890,
			SocksPort:          7891,
			AllowLAN:           true,
			Mode:               "rule",
			LogLevel:           "info",
			ExternalController: "127.0.0.1:9090",
			Proxies:            reorderInfoFirst(doc.Proxies, namedIdx, cls),
			ProxyGroups:        synth.HeuristicGroups(names, cls),
			Rules:              synth.HeuristicRules(),
		}
	default:
		return "", fmt.Errorf("不支持的 policy：%s", opt.Policy)
	}

	rendered, err := marshalOutput(out)
	if err != nil {
		return "", err
	}
	if !opt.NoCompact {
		rendered = compact.Apply(rendered)
	}
	return rendered, nil
}

// reorderInfoFirst moves info nodes to the front of the passthrough list.
// Relative order inside each partition is preserved.
func reorderInfoFirst(proxies []*yaml.Node, namedIdx []int, cls []classify.Classification) []*yaml.Node {
	info := make(map[int]bool, len(namedIdx))
	any := false
	for k, c := range cls {
		if c.Kind == classify.KindInfo {
			info[namedIdx[k]] = true
			any = true
		}
	}
	if !any {
		return proxies
	}

	out := make([]*yaml.Node, 0, len(proxies))
	for i, n := range proxies {
		if info[i] {
			out = append(out, n)
		}
	}
	for i, n := range proxies {
		if !info[i] {
			out = append(out, n)
		}
	}
	return out
}

func marshalOutput(out outputConfig) (string, error) {
	if out.Proxies == nil {
		out.Proxies = []*yaml.Node{}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return "", &SerializeError{
			AppError: model.AppError{
				Code:    "SERIALIZE_ERROR",
				Message: "输出 YAML 序列化失败",
				Stage:   "serialize",
			},
			Cause: err,
		}
	}
	if err := enc.Close(); err != nil {
		return "", &SerializeError{
			AppError: model.AppError{
				Code:    "SERIALIZE_ERROR",
				Message: "输出 YAML 序列化失败",
				Stage:   "serialize",
			},
			Cause: err,
		}
	}
	return buf.String(), nil
}
