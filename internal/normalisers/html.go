package normalisers

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
)

// mainContentSelectors are tried in document order; the first match is
// used as the content root so navigation chrome never reaches the index.
var mainContentSelectors = []string{
	"main",
	"article",
	"[role=main]",
	".content",
	"#content",
	".documentation",
	"#documentation",
}

// chromeSelectors are stripped before falling back to the page body.
var chromeSelectors = []string{
	"nav", "header", "footer", "aside",
	"script", "style", "noscript", "iframe", "form",
	".navbar", ".sidebar", ".menu", ".toc", ".breadcrumb",
}

var excessiveBlankLines = regexp.MustCompile(`\n{3,}`)

// HTMLNormaliser converts HTML pages into Markdown-flavoured text.
// It extracts the main content area first, then runs the fragment
// through an HTML-to-Markdown converter so structure (headings, lists,
// code blocks) survives into the indexed text.
type HTMLNormaliser struct {
	converter *md.Converter
}

// NewHTMLNormaliser creates an HTML normaliser with GitHub-flavored
// Markdown output.
func NewHTMLNormaliser() *HTMLNormaliser {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	return &HTMLNormaliser{converter: converter}
}

func (n *HTMLNormaliser) Normalise(content string, mimeType string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return collapseWhitespace(content)
	}

	fragment := selectMainContent(doc)
	if strings.TrimSpace(fragment) == "" {
		return ""
	}

	markdown, err := n.converter.ConvertString(fragment)
	if err != nil {
		// Conversion failure degrades to plain text extraction
		return collapseWhitespace(doc.Text())
	}
	return cleanMarkdown(markdown)
}

func (n *HTMLNormaliser) SupportedTypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

func (n *HTMLNormaliser) Priority() int {
	return 50 // Medium priority - format-specific
}

// selectMainContent returns the HTML fragment to convert. Recognized
// main-content containers win; otherwise the body is used with page
// chrome removed.
func selectMainContent(doc *goquery.Document) string {
	for _, selector := range mainContentSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			if fragment, err := goquery.OuterHtml(sel.First()); err == nil {
				return fragment
			}
		}
	}

	doc.Find(strings.Join(chromeSelectors, ", ")).Remove()
	if body, err := doc.Find("body").Html(); err == nil {
		return body
	}
	full, _ := doc.Html()
	return full
}

// cleanMarkdown trims trailing space per line and collapses runs of
// blank lines left behind by removed elements.
func cleanMarkdown(content string) string {
	content = excessiveBlankLines.ReplaceAllString(content, "\n\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func collapseWhitespace(content string) string {
	return strings.Join(strings.Fields(content), " ")
}
