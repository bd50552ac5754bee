package classify

import "regexp"

// Region is one row of the fixed-pattern table.
type Region struct {
	Label   string
	Pattern string
}

// fixedRegions is ordered; the sentinel 其他负载组 matches everything and
// guarantees a catch-all exists.
var fixedRegions = []Region{
	{"香港负载组", "(?i)港|hk|hongkong|hong kong"},
	{"台湾负载组", "(?i)台|tw|taiwan"},
	{"日本负载组", "(?i)日|jp|japan"},
	{"新加坡负载组", "(?i)新|sg|singapore"},
	{"美国负载组", "(?i)美|us|usa|united states|america"},
	{"韩国负载组", "(?i)韩|kr|korea"},
	{"英国负载组", "(?i)英|uk|britain|united kingdom"},
	{"德国负载组", "(?i)德|de|germany"},
	{"法国负载组", "(?i)法|fr|france"},
	{"加拿大负载组", "(?i)加|ca|canada"},
	{"澳大利亚负载组", "(?i)澳|au|australia"},
	{"马来西亚负载组", "(?i)马来|my|malaysia"},
	{"土耳其负载组", "(?i)土耳其|tr|turkey"},
	{"阿根廷负载组", "(?i)阿根廷|ar|argentina"},
	{"其他负载组", ".*"},
}

// FixedStrategy classifies by a static ordered table of labeled patterns.
type FixedStrategy struct{}

func Fixed() FixedStrategy { return FixedStrategy{} }

// Classify assigns each node the first table row whose pattern matches its
// name. The sentinel row matches everything, so fixed classification never
// yields KindOther or KindInfo.
func (FixedStrategy) Classify(names []string) []Classification {
	out := make([]Classification, len(names))
	for i, name := range names {
		out[i] = Classification{Kind: KindRegion, Tag: fixedRegions[len(fixedRegions)-1].Label}
		for _, r := range fixedRegions {
			if matchRegion(r.Pattern, name) {
				out[i] = Classification{Kind: KindRegion, Tag: r.Label}
				break
			}
		}
	}
	return out
}

// ActiveRegions returns the table rows with at least one matching node, in
// table order. Activation is multi-match: one node may activate several
// regions. The sentinel region is always active.
func (FixedStrategy) ActiveRegions(names []string) []Region {
	active := make([]Region, 0, len(fixedRegions))
	for _, r := range fixedRegions {
		if r.Pattern == ".*" {
			active = append(active, r)
			continue
		}
		for _, name := range names {
			if matchRegion(r.Pattern, name) {
				active = append(active, r)
				break
			}
		}
	}
	return active
}

func matchRegion(pattern, name string) bool {
	if pattern == ".*" {
		return true
	}
	// A malformed pattern degrades to "no match" for that row only.
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(name)
}
