// Package compact deduplicates the probe-policy literal repeated by every
// load-balance group in a serialized document. Each url/interval/strategy
// triplet after serialization is replaced by a YAML merge reference to one
// shared definition block prepended to the document.
//
// This is line-oriented text surgery on purpose: the serializer stays
// ignorant of the compaction policy, and the pass degrades to a no-op on any
// block that does not have the expected shape.
package compact

import "strings"

const (
	anchorName = "lb_common"

	urlLine      = "url: http://www.gstatic.com/generate_204"
	intervalLine = "interval: 180"
	strategyLine = "strategy: consistent-hashing"

	definition = "." + anchorName + ": &" + anchorName + "\n" +
		"  " + urlLine + "\n" +
		"  " + intervalLine + "\n" +
		"  " + strategyLine + "\n" +
		"\n"
)

// Apply rewrites serialized YAML so each load-balance probe triplet after
// the first occurrence becomes `<<: *lb_common`. Already-compacted text is
// returned unchanged, so the pass is idempotent and the definition block
// appears exactly once.
func Apply(text string) string {
	if strings.Contains(text, "."+anchorName+": &"+anchorName) {
		return text
	}

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	replaced := false

	i := 0
	for i < len(lines) {
		line := lines[i]
		out = append(out, line)
		i++

		if !strings.Contains(line, "type: load-balance") {
			continue
		}

		// Scan the rest of this group for the probe triplet. Stop at the
		// next sibling entry: a new list item or a new name field.
		for i < len(lines) {
			cur := lines[i]

			if isSiblingBoundary(cur) {
				break
			}
			if strings.Contains(cur, urlLine) && hasTripletTail(lines, i) {
				indent := cur[:len(cur)-len(strings.TrimLeft(cur, " \t"))]
				out = append(out, indent+"<<: *"+anchorName)
				i += 3
				replaced = true
				break
			}

			out = append(out, cur)
			i++
		}
	}

	if !replaced {
		return text
	}
	return definition + strings.Join(out, "\n")
}

// hasTripletTail checks that the two lines after the url line are the
// matching interval and strategy lines. Anything else means the block does
// not have the expected shape and must be left alone.
func hasTripletTail(lines []string, urlIdx int) bool {
	if urlIdx+2 >= len(lines) {
		return false
	}
	return strings.Contains(lines[urlIdx+1], intervalLine) &&
		strings.Contains(lines[urlIdx+2], strategyLine)
}

func isSiblingBoundary(line string) bool {
	if strings.Contains(line, "name:") {
		return true
	}
	return strings.HasPrefix(strings.TrimSpace(line), "-")
}
