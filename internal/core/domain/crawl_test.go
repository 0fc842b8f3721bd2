package domain

import (
	"encoding/json"
	"testing"
)

func TestProgressEventTypeConstants(t *testing.T) {
	tests := []struct {
		eventType ProgressEventType
		expected  string
	}{
		{ProgressPageFetched, "page_fetched"},
		{ProgressPageSkipped, "page_skipped"},
		{ProgressPageReady, "page_ready"},
		{ProgressPageError, "page_error"},
		{ProgressCrawlComplete, "crawl_complete"},
		{ProgressCrawlError, "crawl_error"},
	}

	for _, tt := range tests {
		t.Run(string(tt.eventType), func(t *testing.T) {
			if string(tt.eventType) != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, string(tt.eventType))
			}
		})
	}
}

// The event JSON field names are consumed by streaming clients and
// must not drift.
func TestCrawlProgressEventWireFormat(t *testing.T) {
	event := CrawlProgressEvent{
		Type:           ProgressPageReady,
		URL:            "https://example.com/page",
		Title:          "Example Page",
		DocumentID:     "doc-1",
		PagesProcessed: 2,
		PagesSkipped:   1,
		PagesFailed:    0,
		PagesTotal:     4,
	}

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}

	for _, key := range []string{"type", "url", "title", "documentId", "pagesProcessed", "pagesSkipped", "pagesFailed", "pagesTotal"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("expected wire field %q to be present", key)
		}
	}
	if decoded["type"] != "page_ready" {
		t.Errorf("expected type page_ready, got %v", decoded["type"])
	}
	if decoded["pagesProcessed"] != float64(2) {
		t.Errorf("expected pagesProcessed 2, got %v", decoded["pagesProcessed"])
	}
}

func TestCrawlProgressEventOmitsEmptyOptionalFields(t *testing.T) {
	event := CrawlProgressEvent{Type: ProgressCrawlComplete, PagesProcessed: 3, PagesTotal: 3}

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}

	for _, key := range []string{"url", "title", "documentId", "error", "note"} {
		if _, ok := decoded[key]; ok {
			t.Errorf("expected optional field %q to be omitted when empty", key)
		}
	}
	// Counters are always present, even at zero.
	if _, ok := decoded["pagesSkipped"]; !ok {
		t.Error("expected pagesSkipped to be present at zero")
	}
}

func TestValidatedURL(t *testing.T) {
	v := &ValidatedURL{
		NormalizedURL: "https://example.com/",
		Hostname:      "example.com",
		ResolvedIPs:   []string{"93.184.216.34"},
	}

	if v.NormalizedURL != "https://example.com/" {
		t.Errorf("expected NormalizedURL https://example.com/, got %s", v.NormalizedURL)
	}
	if v.Hostname != "example.com" {
		t.Errorf("expected Hostname example.com, got %s", v.Hostname)
	}
	if len(v.ResolvedIPs) != 1 {
		t.Errorf("expected 1 resolved IP, got %d", len(v.ResolvedIPs))
	}
}

func TestCrawlResult(t *testing.T) {
	result := &CrawlResult{
		PagesDelivered: 3,
		PagesSkipped:   1,
		PagesFailed:    1,
		PagesTotal:     5,
		LimitReached:   true,
	}

	if result.PagesDelivered+result.PagesSkipped+result.PagesFailed != result.PagesTotal {
		t.Errorf("expected delivered+skipped+failed to equal total, got %d+%d+%d != %d",
			result.PagesDelivered, result.PagesSkipped, result.PagesFailed, result.PagesTotal)
	}
	if !result.LimitReached {
		t.Error("expected LimitReached to be true")
	}
}
