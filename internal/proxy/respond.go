package proxy

import (
	"net/http"
	"strconv"
)

// sendResponse writes status, extraHeaders (applied after defaulting
// Content-Type so callers can still override it), Content-Length, then
// body, in that order — headers before body, matching the reference
// implementation's send_response helper.
func sendResponse(w http.ResponseWriter, status int, body []byte, extraHeaders map[string]string) error {
	hdr := w.Header()
	if hdr.Get("Content-Type") == "" {
		hdr.Set("Content-Type", "text/plain")
	}
	for k, v := range extraHeaders {
		hdr.Set(k, v)
	}
	hdr.Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	_, err := w.Write(body)
	return err
}
