package normalisers

import (
	"strings"
	"testing"
)

func TestHTMLNormaliser_SimpleHTML(t *testing.T) {
	n := NewHTMLNormaliser()

	result := n.Normalise("<p>Hello</p>", "text/html")
	if result != "Hello" {
		t.Errorf("expected %q, got %q", "Hello", result)
	}
}

func TestHTMLNormaliser_HeadingsBecomeMarkdown(t *testing.T) {
	n := NewHTMLNormaliser()

	input := "<body><h1>Install Guide</h1><p>Run the installer.</p></body>"
	result := n.Normalise(input, "text/html")

	if !strings.Contains(result, "# Install Guide") {
		t.Errorf("expected markdown heading, got %q", result)
	}
	if !strings.Contains(result, "Run the installer.") {
		t.Errorf("expected paragraph text, got %q", result)
	}
}

func TestHTMLNormaliser_MainContentWins(t *testing.T) {
	n := NewHTMLNormaliser()

	input := `<html><body>
		<nav><a href="/">HomeNavLink</a></nav>
		<main><h2>Reference</h2><p>The actual docs.</p></main>
		<footer>CopyrightFooter</footer>
	</body></html>`
	result := n.Normalise(input, "text/html")

	if !strings.Contains(result, "The actual docs.") {
		t.Errorf("expected main content, got %q", result)
	}
	if strings.Contains(result, "HomeNavLink") {
		t.Errorf("expected nav to be excluded, got %q", result)
	}
	if strings.Contains(result, "CopyrightFooter") {
		t.Errorf("expected footer to be excluded, got %q", result)
	}
}

func TestHTMLNormaliser_ArticleFallback(t *testing.T) {
	n := NewHTMLNormaliser()

	input := `<body><article><p>Article body text.</p></article><aside>SidebarNoise</aside></body>`
	result := n.Normalise(input, "text/html")

	if !strings.Contains(result, "Article body text.") {
		t.Errorf("expected article content, got %q", result)
	}
	if strings.Contains(result, "SidebarNoise") {
		t.Errorf("expected aside to be excluded, got %q", result)
	}
}

func TestHTMLNormaliser_ChromeStrippedWithoutMain(t *testing.T) {
	n := NewHTMLNormaliser()

	input := `<html><body>
		<nav>MenuEntries</nav>
		<script>alert("tracking")</script>
		<style>.x { color: red }</style>
		<p>Plain body paragraph.</p>
	</body></html>`
	result := n.Normalise(input, "text/html")

	if !strings.Contains(result, "Plain body paragraph.") {
		t.Errorf("expected body text, got %q", result)
	}
	for _, noise := range []string{"MenuEntries", "alert", "color: red"} {
		if strings.Contains(result, noise) {
			t.Errorf("expected %q to be stripped, got %q", noise, result)
		}
	}
}

func TestHTMLNormaliser_EntitiesDecoded(t *testing.T) {
	n := NewHTMLNormaliser()

	result := n.Normalise("<p>Fish &amp; Chips</p>", "text/html")
	if !strings.Contains(result, "Fish & Chips") {
		t.Errorf("expected decoded entity, got %q", result)
	}
}

func TestHTMLNormaliser_EmptyInput(t *testing.T) {
	n := NewHTMLNormaliser()

	if result := n.Normalise("", "text/html"); result != "" {
		t.Errorf("expected empty output, got %q", result)
	}
	if result := n.Normalise("   \n  ", "text/html"); result != "" {
		t.Errorf("expected empty output for whitespace, got %q", result)
	}
}

func TestHTMLNormaliser_Metadata(t *testing.T) {
	n := NewHTMLNormaliser()

	if n.Priority() != 50 {
		t.Errorf("expected priority 50, got %d", n.Priority())
	}

	types := n.SupportedTypes()
	found := false
	for _, mt := range types {
		if mt == "text/html" {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected text/html in supported types")
	}
}

func TestCleanMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"trailing line space", "line one  \nline two\t", "line one\nline two"},
		{"excessive blank lines", "a\n\n\n\n\nb", "a\n\nb"},
		{"surrounding whitespace", "\n\n  text  \n\n", "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := cleanMarkdown(tt.input)
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}
