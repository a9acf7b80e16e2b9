package loader

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"docrag/internal/domain"
)

// WebLoader fetches a web page and strips its markup down to readable text.
type WebLoader struct {
	client *http.Client
}

func NewWebLoader(timeout time.Duration) *WebLoader {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &WebLoader{client: &http.Client{Timeout: timeout}}
}

func (l *WebLoader) Load(ctx context.Context, locator string) (domain.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return domain.Document{}, fmt.Errorf("%w: bad URL %s: %v", domain.ErrSourceUnavailable, locator, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return domain.Document{}, fmt.Errorf("%w: fetching %s: %v", domain.ErrSourceUnavailable, locator, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return domain.Document{}, fmt.Errorf("%w: fetching %s: %s", domain.ErrSourceUnavailable, locator, resp.Status)
	}
	root, err := html.Parse(resp.Body)
	if err != nil {
		return domain.Document{}, fmt.Errorf("%w: parsing %s: %v", domain.ErrSourceUnavailable, locator, err)
	}
	text := extractText(root)
	if text == "" {
		return domain.Document{}, fmt.Errorf("%w: no text extracted from %s", domain.ErrSourceUnavailable, locator)
	}
	return domain.NewDocument(locator, KindWebsite, text), nil
}

// extractText walks the DOM collecting text nodes, skipping script and
// style subtrees and collapsing whitespace runs. Block elements become
// line breaks so sentence boundaries survive.
func extractText(root *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript", "head":
				return
			}
		case html.TextNode:
			fields := strings.Fields(n.Data)
			if len(fields) > 0 {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(strings.Join(fields, " "))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && isBlock(n.Data) && sb.Len() > 0 {
			sb.WriteByte('\n')
		}
	}
	walk(root)
	return strings.TrimSpace(sb.String())
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "br", "li", "tr", "h1", "h2", "h3", "h4", "h5", "h6", "article", "section":
		return true
	}
	return false
}
