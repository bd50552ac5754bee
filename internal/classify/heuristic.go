package classify

import (
	"strings"
	"unicode/utf8"
)

// infoMarkers flag informational placeholder entries embedded in
// subscriptions. Matched by plain substring containment, case-sensitive.
var infoMarkers = []string{
	"官网",
	"网址",
	"流量",
	"到期",
	"过期",
	"订阅",
	"套餐",
	"剩余",
	"重置",
	"时间",
	"更新",
	"TG",
	"群",
}

// regionDelimiters separate a region prefix from a trailing node number.
const regionDelimiters = "-_ |·｜#@"

// HeuristicStrategy derives region tags from node names instead of a fixed
// table. Tags keep first-occurrence order downstream.
type HeuristicStrategy struct{}

func Heuristic() HeuristicStrategy { return HeuristicStrategy{} }

func (HeuristicStrategy) Classify(names []string) []Classification {
	out := make([]Classification, len(names))
	for i, name := range names {
		if IsInfoName(name) {
			out[i] = Classification{Kind: KindInfo}
			continue
		}
		if tag, ok := ExtractRegion(name); ok {
			out[i] = Classification{Kind: KindRegion, Tag: tag}
			continue
		}
		out[i] = Classification{Kind: KindOther}
	}
	return out
}

// IsInfoName reports whether a node name is an informational placeholder.
func IsInfoName(name string) bool {
	for _, m := range infoMarkers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// ExtractRegion derives a region tag from a node name.
//
// Rule 1: at the last delimiter, if the suffix is entirely ASCII digits and
// the prefix is non-empty, the prefix is the tag ("香港-01" -> "香港").
// Rule 2: otherwise strip a trailing ASCII digit run; a non-empty, strictly
// shorter prefix is the tag ("香港01" -> "香港").
// Anything else has no tag: all-digit names, bare words ("Singapore"), and
// delimited names with a non-numeric suffix ("US-West").
func ExtractRegion(name string) (string, bool) {
	if i := strings.LastIndexAny(name, regionDelimiters); i >= 0 {
		_, w := utf8.DecodeRuneInString(name[i:])
		prefix, suffix := name[:i], name[i+w:]
		if prefix != "" && isASCIIDigits(suffix) {
			return prefix, true
		}
	}

	trimmed := strings.TrimRight(name, "0123456789")
	if trimmed != "" && len(trimmed) < len(name) {
		return trimmed, true
	}
	return "", false
}

func isASCIIDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
