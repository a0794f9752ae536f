package utils

import (
	"strings"
	"testing"
)

func TestRenderMarkdown_Sanitizes(t *testing.T) {
	out := string(RenderMarkdown("hello <script>alert(1)</script> **world**"))
	if strings.Contains(out, "<script>") {
		t.Errorf("script tag survived sanitization: %s", out)
	}
	if !strings.Contains(out, "<strong>world</strong>") {
		t.Errorf("markdown not rendered: %s", out)
	}
}

func TestContainsLinkOrImage(t *testing.T) {
	cases := []struct {
		content string
		want    bool
	}{
		{"plain text post", false},
		{"[chart](https://example.com/chart.png)", true},
		{"raw link https://example.com", true},
		{"insecure http://example.com", true},
		{"![img](x.png)", true},
	}
	for _, tc := range cases {
		if got := ContainsLinkOrImage(tc.content); got != tc.want {
			t.Errorf("ContainsLinkOrImage(%q) = %v, want %v", tc.content, got, tc.want)
		}
	}
}
