package template

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-notegen/pkg/document"
)

var (
	urlPolicyOnce sync.Once
	linkPolicy    *bluemonday.Policy
	imagePolicy   *bluemonday.Policy
)

func urlPolicies() (*bluemonday.Policy, *bluemonday.Policy) {
	urlPolicyOnce.Do(func() {
		links := bluemonday.StrictPolicy()
		links.AllowElements("a")
		links.AllowAttrs("href").OnElements("a")
		links.AllowURLSchemes("http", "https", "mailto", "tel")
		links.RequireParseableURLs(true)
		linkPolicy = links

		images := bluemonday.StrictPolicy()
		images.AllowElements("img")
		images.AllowAttrs("src").OnElements("img")
		images.AllowURLSchemes("http", "https")
		images.AllowDataURIImages()
		images.RequireParseableURLs(true)
		imagePolicy = images
	})
	return linkPolicy, imagePolicy
}

// sanitizeContent strips untrusted URLs from a content tree before it is
// persisted. Link marks keep only http, https, mailto and tel hrefs; image
// nodes keep only http(s) and data-image srcs. An image with a rejected src
// is removed outright, a link with a rejected href degrades to plain text.
func sanitizeContent(content *document.Node) *document.Node {
	if content == nil {
		return nil
	}
	links, images := urlPolicies()

	return document.Map(content, func(n *document.Node) *document.Node {
		switch n.Type {
		case document.KindText:
			if len(n.Marks) == 0 {
				return n
			}
			kept := n.Marks[:0]
			for _, mark := range n.Marks {
				if mark.Type == document.MarkLink {
					href, _ := mark.Attrs["href"].(string)
					if !allowedURL(links, "a", "href", href) {
						continue
					}
				}
				kept = append(kept, mark)
			}
			n.Marks = kept
			return n
		case document.KindImage:
			if !allowedURL(images, "img", "src", n.StringAttr("src")) {
				return nil
			}
			return n
		default:
			return n
		}
	})
}

// allowedURL runs the candidate through bluemonday wrapped in a minimal
// element and checks whether the attribute survived.
func allowedURL(policy *bluemonday.Policy, element, attr, raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}
	cleaned := policy.Sanitize(`<` + element + ` ` + attr + `="` + html.EscapeString(raw) + `">`)
	return strings.Contains(cleaned, attr+"=")
}
