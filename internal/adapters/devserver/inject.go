package devserver

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ClientPath serves the live reload client script.
const ClientPath = "/__livereload.js"

// ReloadPath is the live reload WebSocket endpoint.
const ReloadPath = "/__livereload"

var clientTag = []byte(`<script src="` + ClientPath + `"></script>`)

// InjectClient inserts the live reload script before the last closing body
// tag of page, or appends it when the page has none.
func InjectClient(page []byte) []byte {
	at := -1
	offset := 0
	z := html.NewTokenizer(bytes.NewReader(page))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if !errors.Is(z.Err(), io.EOF) {
				at = -1
			}
			break
		}
		raw := len(z.Raw())
		if tt == html.EndTagToken {
			name, _ := z.TagName()
			if strings.EqualFold(string(name), "body") {
				at = offset
			}
		}
		offset += raw
	}

	out := make([]byte, 0, len(page)+len(clientTag))
	if at < 0 {
		out = append(out, page...)
		return append(out, clientTag...)
	}
	out = append(out, page[:at]...)
	out = append(out, clientTag...)
	return append(out, page[at:]...)
}
