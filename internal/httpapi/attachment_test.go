package httpapi

import (
	"strings"
	"testing"
)

func TestOutputFileName(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"default", "", "clash.yaml", false},
		{"whitespace only", "   ", "clash.yaml", false},
		{"keeps extension", "my-config.yml", "my-config.yml", false},
		{"appends yaml", "myconfig", "myconfig.yaml", false},
		{"chinese name", "我的配置", "我的配置.yaml", false},
		{"leading dot only", ".yaml", ".yaml", false},
		{"hidden-style name", ".config", ".config", false},
		{"newline", "a\nb", "", true},
		{"carriage return", "a\rb", "", true},
		{"nul byte", "a\x00b", "", true},
		{"forward slash", "a/b", "", true},
		{"backslash", "a\\b", "", true},
		{"too long", strings.Repeat("x", 201), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := outputFileName(convertRequest{FileName: tt.in})
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContentDispositionAttachment(t *testing.T) {
	got := contentDispositionAttachment("clash.yaml")
	want := `attachment; filename="clash.yaml"; filename*=UTF-8''clash.yaml`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestContentDispositionAttachment_EscapesQuotes(t *testing.T) {
	got := contentDispositionAttachment(`a"b.yaml`)
	if !strings.Contains(got, `filename="a\"b.yaml"`) {
		t.Fatalf("quote not escaped: %q", got)
	}
}

func TestContentDispositionAttachment_UTF8(t *testing.T) {
	got := contentDispositionAttachment("配置.yaml")
	if !strings.Contains(got, "filename*=UTF-8''%E9%85%8D%E7%BD%AE.yaml") {
		t.Fatalf("missing RFC 5987 encoding: %q", got)
	}
	if strings.Contains(got, "+") {
		t.Fatalf("spaces must be %%20-encoded, not '+': %q", got)
	}
}

func TestPctEncode_Space(t *testing.T) {
	if got := pctEncode("a b.yaml"); got != "a%20b.yaml" {
		t.Fatalf("got %q", got)
	}
}
