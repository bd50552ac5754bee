package subdoc

import (
	"errors"
	"testing"
)

func TestParse_OK(t *testing.T) {
	doc, err := Parse(`
proxies:
  - name: "香港-01"
    type: ss
    server: hk1.example.com
    port: 443
  - name: "US-01"
    type: vmess
    server: us1.example.com
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Proxies) != 2 {
		t.Fatalf("len = %d, want 2", len(doc.Proxies))
	}

	name, ok := NodeName(doc.Proxies[0])
	if !ok || name != "香港-01" {
		t.Fatalf("NodeName = (%q, %v)", name, ok)
	}
}

func TestParse_EmptyProxies(t *testing.T) {
	doc, err := Parse("proxies: []\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Proxies) != 0 {
		t.Fatalf("len = %d, want 0", len(doc.Proxies))
	}
}

func TestParse_IgnoresOtherTopLevelFields(t *testing.T) {
	doc, err := Parse(`
port: 7890
mode: rule
proxies:
  - name: "A"
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Proxies) != 1 {
		t.Fatalf("len = %d, want 1", len(doc.Proxies))
	}
}

func TestParse_Failures(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"invalid yaml", "invalid yaml content: [[["},
		{"missing proxies", "port: 7890\nmode: rule\n"},
		{"proxies not a sequence", "proxies: 5\n"},
		{"proxies null", "proxies:\n"},
		{"empty document", ""},
		{"top level not mapping", "- a\n- b\n"},
		{"multi document", "proxies: []\n---\nproxies: []\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T: %v", err, err)
			}
			if pe.AppError.Code != "SUB_PARSE_ERROR" {
				t.Fatalf("code = %q", pe.AppError.Code)
			}
		})
	}
}

func TestNodeName_NoName(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing", "proxies:\n  - type: ss\n    server: a.com\n"},
		{"null", "proxies:\n  - name: null\n    type: ss\n"},
		{"numeric", "proxies:\n  - name: 12345\n    type: ss\n"},
		{"bool", "proxies:\n  - name: true\n    type: ss\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got, ok := NodeName(doc.Proxies[0]); ok {
				t.Fatalf("NodeName = (%q, true), want no name", got)
			}
		})
	}
}

func TestNodeName_EmptyString(t *testing.T) {
	doc, err := Parse("proxies:\n  - name: \"\"\n    type: ss\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	name, ok := NodeName(doc.Proxies[0])
	if !ok || name != "" {
		t.Fatalf("NodeName = (%q, %v), want (\"\", true)", name, ok)
	}
}
