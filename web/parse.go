package web

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// ForEachNode applies a function to the given node and each of its
// descendants.
func ForEachNode(node *html.Node, fn func(n *html.Node) error) error {
	var iter func(n *html.Node) error
	iter = func(n *html.Node) error {
		err := fn(n)
		if err != nil {
			return err
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			err := iter(c)
			if err != nil {
				return err
			}
		}

		return nil
	}

	return iter(node)
}

// attr returns the value of the named attribute of n, or the empty string.
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// NodesWithDataVal returns a slice of all descendant nodes whose "data" field
// has the given value.
func NodesWithDataVal(node *html.Node, dataName string) []*html.Node {
	var nodes []*html.Node

	ForEachNode(node, func(n *html.Node) error {
		if n.Type == html.ElementNode && n.Data == dataName {
			nodes = append(nodes, n)
		}
		return nil
	})

	return nodes
}

// EmbeddedImageURLs returns the absolute http(s) urls of all images embedded
// in the given html document, in document order and without duplicates.
// Relative urls are resolved against base. Inline data urls are skipped.
func EmbeddedImageURLs(doc *html.Node, base *url.URL) []string {
	seen := map[string]struct{}{}

	var urls []string
	for _, n := range NodesWithDataVal(doc, "img") {
		src := strings.TrimSpace(attr(n, "src"))
		if src == "" {
			continue
		}

		ref, err := url.Parse(src)
		if err != nil {
			continue
		}
		if base != nil {
			ref = base.ResolveReference(ref)
		}
		if ref.Scheme != "http" && ref.Scheme != "https" {
			continue
		}

		u := ref.String()
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}

	return urls
}

// PageImageURLs parses an html page read from r and returns the urls of its
// embedded images. See EmbeddedImageURLs.
func PageImageURLs(r io.Reader, base *url.URL) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return EmbeddedImageURLs(doc, base), nil
}
