// Package pretty formats API payloads for people: indented JSON, XML and HTML bodies,
// response dumps for the CLI and the browsable HTML page served to browsers.
package pretty

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/http/httputil"
	"strings"

	"github.com/beevik/etree"
	"github.com/gabriel-vasile/mimetype"
	"github.com/yosssi/gohtml"
)

// Prettify indents JSON, XML or HTML bodies, keeping JSON keys in their original order.
// It returns an empty slice when the body is none of these.
func Prettify(body []byte) ([]byte, error) {
	if len(body) == 0 {
		return []byte{}, nil
	}

	trimmed := bytes.TrimSpace(body)

	if json.Valid(trimmed) {
		var output bytes.Buffer
		if err := json.Indent(&output, trimmed, "", "  "); err != nil {
			return []byte{}, fmt.Errorf("indenting JSON: %w", err)
		}
		return output.Bytes(), nil
	}

	doc := etree.NewDocument()
	err := doc.ReadFromBytes(trimmed)
	if err == nil && doc.Root() != nil {
		doc.Indent(1)
		var output bytes.Buffer
		if _, err := doc.WriteTo(&output); err != nil {
			return []byte{}, fmt.Errorf("writing indented XML : %w", err)
		}
		return output.Bytes(), nil
	}

	contentType := mimetype.Detect(trimmed).String()
	if strings.Contains(contentType, "text/html") ||
		(bytes.HasPrefix(trimmed, []byte("<")) && !bytes.HasPrefix(trimmed, []byte("<?xml"))) {
		output := gohtml.FormatBytes(trimmed)
		if !bytes.Equal(output, trimmed) && len(output) > 0 {
			return output, nil
		}
	}

	return []byte{}, nil
}

// DumpResponse dumps the headers and body of res and resets the body so it can be consumed again.
// The pretty dump is empty when the body could not be prettified.
func DumpResponse(res *http.Response) (rawDump []byte, prettyDump string, err error) {
	headers, err := httputil.DumpResponse(res, false)
	if err != nil {
		return []byte{}, "", fmt.Errorf("dumping response : %w", err)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return []byte{}, "", fmt.Errorf("reading response body: %w", err)
	}
	res.Body = io.NopCloser(bytes.NewReader(body))

	fullDump := append(bytes.Clone(headers), body...)

	prettified, err := Prettify(body)
	if err != nil || len(prettified) == 0 {
		return fullDump, "", nil
	}
	return fullDump, string(headers) + string(prettified), nil
}

// Page renders body as a browsable HTML document. The body is prettified when possible
// and shown inside a pre block, which the HTML formatter leaves untouched.
func Page(title string, status int, body []byte) []byte {
	content, err := Prettify(body)
	if err != nil || len(content) == 0 {
		content = body
	}

	page := fmt.Sprintf(`<!DOCTYPE html><html><head><meta charset="utf-8"><title>%s</title></head>`+
		`<body><h1>%s</h1><p>HTTP %d %s</p><pre>%s</pre></body></html>`,
		html.EscapeString(title), html.EscapeString(title), status, http.StatusText(status),
		html.EscapeString(string(content)))
	return gohtml.FormatBytes([]byte(page))
}
