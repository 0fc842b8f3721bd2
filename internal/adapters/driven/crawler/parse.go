package crawler

import (
	"bytes"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// binaryExtensions lists file extensions the crawler never fetches.
var binaryExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
	".svg": true, ".ico": true, ".bmp": true,
	".pdf": true, ".zip": true, ".gz": true, ".tar": true, ".tgz": true,
	".bz2": true, ".7z": true, ".rar": true,
	".mp3": true, ".mp4": true, ".avi": true, ".mov": true, ".webm": true, ".wav": true,
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true, ".otf": true,
	".exe": true, ".dmg": true, ".iso": true, ".bin": true, ".apk": true,
	".doc": true, ".docx": true, ".xls": true, ".xlsx": true, ".ppt": true, ".pptx": true,
}

// binaryExtension returns the URL path's extension if it is a known
// binary type, "" otherwise.
func binaryExtension(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	ext := strings.ToLower(path.Ext(u.Path))
	if binaryExtensions[ext] {
		return ext
	}
	return ""
}

// parsePage extracts the title and the same-origin links of an HTML
// page. Links are returned absolute, fragment-stripped, deduplicated,
// in document order.
func parsePage(origin *url.URL, pageURL string, body []byte) (string, []string) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", nil
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	base, err := url.Parse(pageURL)
	if err != nil {
		return title, nil
	}

	var links []string
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			return
		}
		if !sameOrigin(abs, origin) {
			return
		}
		abs.Fragment = ""
		link := abs.String()
		if seen[link] {
			return
		}
		seen[link] = true
		links = append(links, link)
	})

	return title, links
}

// sameOrigin compares scheme, host, and effective port.
func sameOrigin(u, origin *url.URL) bool {
	if !strings.EqualFold(u.Scheme, origin.Scheme) {
		return false
	}
	if !strings.EqualFold(u.Hostname(), origin.Hostname()) {
		return false
	}
	return effectivePort(u) == effectivePort(origin)
}

func effectivePort(u *url.URL) string {
	if port := u.Port(); port != "" {
		return port
	}
	if strings.EqualFold(u.Scheme, "https") {
		return "443"
	}
	return "80"
}

// contentMediaType extracts the media type from a Content-Type header.
// An absent header is treated as HTML, the dominant case for pages
// served without one.
func contentMediaType(header string) string {
	if header == "" {
		return "text/html"
	}
	if idx := strings.Index(header, ";"); idx != -1 {
		header = header[:idx]
	}
	return strings.ToLower(strings.TrimSpace(header))
}

// isCrawlableType reports whether a media type is worth indexing.
func isCrawlableType(mediaType string) bool {
	if strings.HasPrefix(mediaType, "text/") {
		return true
	}
	return mediaType == "application/xhtml+xml"
}

// isHTMLType reports whether a media type carries followable links.
func isHTMLType(mediaType string) bool {
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
