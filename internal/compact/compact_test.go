package compact

import (
	"strings"
	"testing"
)

const sample = `proxies:
  - name: hk-01
    server: a.com
proxy-groups:
  - name: 全部节点负载组
    type: load-balance
    include-all: true
    url: http://www.gstatic.com/generate_204
    interval: 180
    strategy: consistent-hashing
  - name: 香港负载组
    type: load-balance
    include-all: true
    filter: (?i)港|hk
    url: http://www.gstatic.com/generate_204
    interval: 180
    strategy: consistent-hashing
rules:
  - GEOIP,CN,直接连接
`

func TestApply_ReplacesTripletAndPrependsDefinition(t *testing.T) {
	out := Apply(sample)

	if !strings.HasPrefix(out, ".lb_common: &lb_common\n") {
		t.Fatalf("definition block not prepended:\n%s", out)
	}
	if strings.Count(out, "<<: *lb_common") != 2 {
		t.Fatalf("want 2 merge references, got %d:\n%s", strings.Count(out, "<<: *lb_common"), out)
	}
	// The only remaining url/interval/strategy lines live in the definition.
	if strings.Count(out, "url: http://www.gstatic.com/generate_204") != 1 {
		t.Fatalf("url literal should survive only in the definition:\n%s", out)
	}
	if strings.Count(out, "interval: 180") != 1 || strings.Count(out, "strategy: consistent-hashing") != 1 {
		t.Fatalf("triplet not fully replaced:\n%s", out)
	}
	// Non-triplet group fields stay.
	if !strings.Contains(out, "filter: (?i)港|hk") {
		t.Fatalf("filter line lost:\n%s", out)
	}
}

func TestApply_IndentationPreserved(t *testing.T) {
	out := Apply(sample)
	if !strings.Contains(out, "\n    <<: *lb_common\n") {
		t.Fatalf("merge reference must sit at the replaced block's indentation:\n%s", out)
	}
}

func TestApply_Idempotent(t *testing.T) {
	once := Apply(sample)
	twice := Apply(once)
	if once != twice {
		t.Fatalf("second pass changed output:\n--- once ---\n%s\n--- twice ---\n%s", once, twice)
	}
	if strings.Count(twice, ".lb_common: &lb_common") != 1 {
		t.Fatalf("definition block count = %d, want 1", strings.Count(twice, ".lb_common: &lb_common"))
	}
}

func TestApply_NoLoadBalanceGroups(t *testing.T) {
	text := "proxies: []\nproxy-groups:\n  - name: PROXY\n    type: select\n    proxies:\n      - DIRECT\nrules:\n  - MATCH,PROXY\n"
	if got := Apply(text); got != text {
		t.Fatalf("text without load-balance groups must pass through unchanged:\n%s", got)
	}
}

func TestApply_MalformedTripletLeftAlone(t *testing.T) {
	// interval missing: the block must be left untouched.
	text := `proxy-groups:
  - name: 香港负载组
    type: load-balance
    url: http://www.gstatic.com/generate_204
    strategy: consistent-hashing
`
	if got := Apply(text); got != text {
		t.Fatalf("malformed triplet must be left unmodified:\n%s", got)
	}
}

func TestApply_StopsAtNextSibling(t *testing.T) {
	// The load-balance group has no url; the next group's triplet must not
	// be consumed by the first group's scan. Only the select group is
	// skipped (select blocks are never touched), and the second
	// load-balance group is compacted.
	text := `proxy-groups:
  - name: first
    type: load-balance
    include-all: true
  - name: second
    type: select
    url: http://www.gstatic.com/generate_204
    interval: 180
    strategy: consistent-hashing
`
	got := Apply(text)
	if strings.Contains(got, "<<:") {
		t.Fatalf("triplet of the sibling group must not be rewritten:\n%s", got)
	}
	if got != text {
		t.Fatalf("unexpected rewrite:\n%s", got)
	}
}

func TestApply_MixedSelectAndLoadBalance(t *testing.T) {
	text := `proxy-groups:
  - name: 默认流量
    type: select
    proxies:
      - 节点选择
      - 直接连接
  - name: 全部节点负载组
    type: load-balance
    include-all: true
    url: http://www.gstatic.com/generate_204
    interval: 180
    strategy: consistent-hashing
`
	got := Apply(text)
	if strings.Count(got, "<<: *lb_common") != 1 {
		t.Fatalf("want exactly 1 merge reference:\n%s", got)
	}
	if !strings.Contains(got, "- 节点选择") {
		t.Fatalf("select group members must be untouched:\n%s", got)
	}
}
