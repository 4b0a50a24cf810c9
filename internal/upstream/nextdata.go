package upstream

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html"
)

// NextData is the decoded skeleton of a server-rendered page payload.
// Next.js sites ship the full page state in a
// <script id="__NEXT_DATA__" type="application/json"> element; some
// providers serve that HTML instead of JSON depending on routing, so
// adapters fall back to this when a body does not decode as JSON.
type NextData struct {
	// Raw is the full script payload.
	Raw json.RawMessage
	// PageProps is the props.pageProps subtree.
	PageProps json.RawMessage
	// Data is props.pageProps.data, matching what the JSON endpoint
	// would have returned. Empty when the page carries none.
	Data json.RawMessage
}

// DecodeBody parses an upstream response body into out. Bodies are tried
// as JSON first; HTML with an embedded __NEXT_DATA__ payload is accepted
// as a fallback. Anything else is a DataError for the named provider.
func DecodeBody(provider string, body []byte, out any) error {
	jsonErr := json.Unmarshal(body, out)
	if jsonErr == nil {
		return nil
	}

	nd, err := DecodeNextData(bytes.NewReader(body))
	if err != nil {
		return DataError(provider, jsonErr)
	}
	if len(nd.Data) == 0 {
		return DataError(provider, errors.New("__NEXT_DATA__ carries no page data"))
	}
	if err := json.Unmarshal(nd.Data, out); err != nil {
		return DataError(provider, err)
	}
	return nil
}

// DecodeNextData extracts the embedded __NEXT_DATA__ payload from an
// HTML document.
func DecodeNextData(r io.Reader) (*NextData, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	raw := findNextData(doc)
	if raw == "" {
		return nil, errors.New("no __NEXT_DATA__ script element")
	}

	var envelope struct {
		Props struct {
			PageProps json.RawMessage `json:"pageProps"`
		} `json:"props"`
	}
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return nil, fmt.Errorf("decode __NEXT_DATA__: %w", err)
	}

	nd := &NextData{
		Raw:       json.RawMessage(raw),
		PageProps: envelope.Props.PageProps,
	}
	if len(nd.PageProps) > 0 {
		var pageProps struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(nd.PageProps, &pageProps); err == nil {
			nd.Data = pageProps.Data
		}
	}
	return nd, nil
}

func findNextData(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "script" {
		for _, attr := range n.Attr {
			if attr.Key == "id" && attr.Val == "__NEXT_DATA__" {
				if n.FirstChild != nil {
					return n.FirstChild.Data
				}
				return ""
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if s := findNextData(c); s != "" {
			return s
		}
	}
	return ""
}
