package restyutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/go-resty/resty/v2"
)

const redacted = "<redacted>"

var redactedHeaders = map[string]bool{
	"Authorization": true,
	"Cookie":        true,
	"Set-Cookie":    true,
}

// json keys whose values never reach a dump, auth requests and responses
// carry them.
var redactedFields = map[string]bool{
	"password":         true,
	"confirm_password": true,
	"confirmPassword":  true,
	"token":            true,
	"access_token":     true,
}

func formatHeaders(headers http.Header) string {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		for _, v := range headers[k] {
			if redactedHeaders[http.CanonicalHeaderKey(k)] {
				v = redacted
			}
			lines = append(lines, k+": "+v)
		}
	}
	return strings.Join(lines, "\n")
}

func redactValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		for key, inner := range v {
			if redactedFields[key] {
				v[key] = redacted
				continue
			}
			v[key] = redactValue(inner)
		}
	case []any:
		for i, inner := range v {
			v[i] = redactValue(inner)
		}
	}
	return value
}

// formatBody indents json bodies and redacts their secrets, anything else is
// returned as is.
func formatBody(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}
	var parsed any
	if json.Unmarshal(trimmed, &parsed) != nil {
		return string(body)
	}
	out, err := json.MarshalIndent(redactValue(parsed), "", "  ")
	if err != nil {
		return string(body)
	}
	return string(out)
}

func requestBody(req *http.Request) []byte {
	if req.GetBody == nil {
		return nil
	}
	body, err := req.GetBody()
	if err != nil {
		return []byte(fmt.Sprintf("failed to get request body: %s", err.Error()))
	}
	defer body.Close()
	read, err := io.ReadAll(body)
	if err != nil {
		return []byte(fmt.Sprintf("failed to read request body: %s", err.Error()))
	}
	return read
}

func section(out *strings.Builder, title string, parts ...string) {
	fmt.Fprintf(out, "---- %s ----\n", title)
	for _, part := range parts {
		if part == "" {
			continue
		}
		out.WriteString("\n")
		out.WriteString(part)
		out.WriteString("\n")
	}
}

func formatHttpMessage(res *resty.Response) string {
	var out strings.Builder

	var headers, body string
	if res.Request.RawRequest != nil {
		headers = formatHeaders(res.Request.RawRequest.Header)
		body = formatBody(requestBody(res.Request.RawRequest))
	}
	section(&out, "REQUEST", res.Request.Method+" "+res.Request.URL, headers, body)

	out.WriteString("\n")
	section(
		&out, "RESPONSE",
		fmt.Sprintf("%d (%s)", res.StatusCode(), res.Time()),
		formatHeaders(res.Header()),
		formatBody(res.Body()),
	)
	return out.String()
}
