package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// maxBodyBytes caps request bodies; stock entry updates are the largest payloads
const maxBodyBytes = 1 << 20

// params are the named arguments of a method call, merged from the query string,
// a form body and a JSON body (later sources win).
type params struct {
	values url.Values
}

// params reads the call arguments or answers with an error mapping
func (r *Router) params(w http.ResponseWriter, req *http.Request) (params, bool) {
	p, err := readParams(req)
	if err != nil {
		respondMessage(w, map[string]string{"error": err.Error()})
		return params{}, false
	}
	return p, true
}

func readParams(req *http.Request) (params, error) {
	p := params{values: url.Values{}}
	for k, v := range req.URL.Query() {
		p.values[k] = v
	}

	if req.Body == nil || req.Method == http.MethodGet {
		return p, nil
	}
	req.Body = http.MaxBytesReader(nil, req.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(req.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return p, fmt.Errorf("Failed to read request body: %w", err)
		}
		if len(bytes.TrimSpace(body)) == 0 {
			return p, nil
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(body, &fields); err != nil {
			return p, fmt.Errorf("Invalid JSON body")
		}
		for k, raw := range fields {
			p.values.Set(k, rawToString(raw))
		}
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := req.ParseMultipartForm(maxBodyBytes); err != nil && err != http.ErrNotMultipart {
			return p, fmt.Errorf("Invalid form body")
		}
		for k, v := range req.PostForm {
			p.values[k] = v
		}
	}
	return p, nil
}

// rawToString keeps strings as-is and passes any other JSON value through as text,
// so a JSON list sent for "items" arrives the same as a JSON-encoded string would.
func rawToString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	text := strings.TrimSpace(string(raw))
	if text == "null" {
		return ""
	}
	return text
}

func (p params) get(key string) string {
	return strings.TrimSpace(p.values.Get(key))
}

// raw returns the value without trimming, for secrets
func (p params) raw(key string) string {
	return p.values.Get(key)
}

func (p params) getInt(key string, def int) int {
	v := p.get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func (p params) getBool(key string) bool {
	switch strings.ToLower(p.get(key)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
