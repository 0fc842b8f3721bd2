package http

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// eventStream writes server-sent events. The response switches to
// text/event-stream on the first event, so rejection errors decided
// before any event can still go out as plain JSON.
type eventStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// newEventStream sends the SSE headers and commits the response.
// No JSON error can be written after this point.
func newEventStream(w http.ResponseWriter) *eventStream {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	s := &eventStream{w: w, flusher: flusher}
	s.flush()
	return s
}

// send writes one event as a data line followed by a blank line
func (s *eventStream) send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return err
	}
	s.flush()
	return nil
}

// done writes the literal terminator clients watch for
func (s *eventStream) done() {
	_, _ = fmt.Fprint(s.w, "data: [DONE]\n\n")
	s.flush()
}

func (s *eventStream) flush() {
	if s.flusher != nil {
		s.flusher.Flush()
	}
}
