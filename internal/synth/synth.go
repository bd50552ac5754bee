// Package synth builds the emitted proxy-group and rule lists from
// classification results. Construction is deterministic and order is part of
// the contract: clients pin group positions, so every rule here is fixed.
package synth

import (
	"sort"

	"github.com/nodeforge/clashsub/internal/classify"
	"github.com/nodeforge/clashsub/internal/model"
)

// Probe policy shared by every load-balance group.
const (
	ProbeURL      = "http://www.gstatic.com/generate_204"
	ProbeInterval = 180
	ProbeStrategy = "consistent-hashing"
)

// Fixed-policy group names.
const (
	FixedTopSelector  = "默认流量"
	FixedNodeSelector = "节点选择"
	FixedAllNodes     = "全部节点负载组"
	FixedDirect       = "直接连接"
)

// Heuristic-policy group names.
const (
	HeuristicTopSelector = "默认代理"
	HeuristicInfoGroup   = "订阅信息"
	HeuristicOtherGroup  = "其他"
)

func lbGroup(name string) model.Group {
	return model.Group{
		Name:     name,
		Type:     model.GroupLoadBalance,
		URL:      ProbeURL,
		Interval: ProbeInterval,
		Strategy: ProbeStrategy,
	}
}

// memberList copies names into a non-nil slice so the proxies key always
// serializes, even when empty.
func memberList(names []string) *[]string {
	out := append([]string{}, names...)
	return &out
}

// FixedGroups assembles the fixed-policy group list:
// top selector, node selector, all-nodes load-balance, one load-balance per
// active region (table order), direct selector. Load-balance groups use
// include-all; region ones additionally carry the table pattern as filter.
func FixedGroups(names []string, regions []classify.Region) []model.Group {
	groups := make([]model.Group, 0, len(regions)+4)

	top := make([]string, 0, len(regions)+3)
	top = append(top, FixedNodeSelector, FixedDirect, FixedAllNodes)
	for _, r := range regions {
		top = append(top, r.Label)
	}
	groups = append(groups, model.Group{
		Name:    FixedTopSelector,
		Type:    model.GroupSelect,
		Proxies: &top,
	})

	groups = append(groups, model.Group{
		Name:    FixedNodeSelector,
		Type:    model.GroupSelect,
		Proxies: memberList(names),
	})

	all := lbGroup(FixedAllNodes)
	all.IncludeAll = true
	groups = append(groups, all)

	for _, r := range regions {
		g := lbGroup(r.Label)
		g.IncludeAll = true
		g.Filter = r.Pattern
		groups = append(groups, g)
	}

	groups = append(groups, model.Group{
		Name:    FixedDirect,
		Type:    model.GroupSelect,
		Proxies: &[]string{"DIRECT"},
	})
	return groups
}

// FixedRules is the fixed-policy rule list. The MATCH entry must stay last.
func FixedRules() []string {
	return []string{
		"GEOIP,LAN," + FixedDirect,
		"GEOIP,CN," + FixedDirect,
		"MATCH," + FixedTopSelector,
	}
}

// HeuristicGroups assembles the heuristic-policy group list from per-node
// classifications (parallel to names).
//
// Order: top selector, info selector (only if info nodes exist), one
// load-balance per region tag in first-occurrence order, the 其他
// load-balance (only if unclassified nodes exist). Region and 其他
// membership is sorted lexicographically; info membership keeps input order.
func HeuristicGroups(names []string, cls []classify.Classification) []model.Group {
	var infoNames []string
	var otherNames []string
	tagOrder := make([]string, 0)
	tagMembers := make(map[string][]string)

	for i, c := range cls {
		switch c.Kind {
		case classify.KindInfo:
			infoNames = append(infoNames, names[i])
		case classify.KindRegion:
			if _, ok := tagMembers[c.Tag]; !ok {
				tagOrder = append(tagOrder, c.Tag)
			}
			tagMembers[c.Tag] = append(tagMembers[c.Tag], names[i])
		case classify.KindOther:
			otherNames = append(otherNames, names[i])
		}
	}

	groups := make([]model.Group, 0, len(tagOrder)+3)

	top := make([]string, 0, len(tagOrder)+3)
	if len(infoNames) > 0 {
		top = append(top, HeuristicInfoGroup)
	}
	top = append(top, tagOrder...)
	if len(otherNames) > 0 {
		top = append(top, HeuristicOtherGroup)
	}
	top = append(top, "DIRECT")
	groups = append(groups, model.Group{
		Name:    HeuristicTopSelector,
		Type:    model.GroupSelect,
		Proxies: &top,
	})

	if len(infoNames) > 0 {
		groups = append(groups, model.Group{
			Name:    HeuristicInfoGroup,
			Type:    model.GroupSelect,
			Proxies: &infoNames,
		})
	}

	for _, tag := range tagOrder {
		members := tagMembers[tag]
		sort.Strings(members)
		g := lbGroup(tag)
		g.Proxies = &members
		groups = append(groups, g)
	}

	if len(otherNames) > 0 {
		sort.Strings(otherNames)
		g := lbGroup(HeuristicOtherGroup)
		g.Proxies = &otherNames
		groups = append(groups, g)
	}
	return groups
}

// HeuristicRules is the heuristic-policy rule list. MATCH stays last.
func HeuristicRules() []string {
	return []string{
		"GEOIP,LAN,DIRECT",
		"GEOIP,CN,DIRECT",
		"MATCH," + HeuristicTopSelector,
	}
}
