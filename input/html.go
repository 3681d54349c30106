package input

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"golang.org/x/net/html"
)

var (
	scriptRe         = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleRe          = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	excessiveLinesRe = regexp.MustCompile(`\n{3,}`)
	imageRe          = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	linkRe           = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	headingRe        = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	emphasisRe       = regexp.MustCompile(`\*\*([^*]+)\*\*|__([^_]+)__`)
)

// boilerplate elements never carry text worth annotating.
var boilerplate = []string{
	"nav", "header", "footer", "aside", "script", "style", "noscript",
	"iframe", "object", "embed", "form", "input", "button",
}

// HTMLConverter turns HTML pages into documents.
type HTMLConverter struct {
	converter *md.Converter
}

// NewHTMLConverter creates a converter with GitHub flavored markdown support,
// which keeps table cells apart in the resulting text.
func NewHTMLConverter() *HTMLConverter {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	return &HTMLConverter{converter: converter}
}

// Convert reduces page to a document holding its title and main text.
func (c *HTMLConverter) Convert(page []byte) (Document, error) {
	doc, err := html.Parse(strings.NewReader(string(page)))
	if err != nil {
		return Document{}, err
	}

	title := findTitle(doc)

	body := mainContent(doc)
	if body == "" {
		body = scriptRe.ReplaceAllString(string(page), "")
		body = styleRe.ReplaceAllString(body, "")
	}

	markdown, err := c.converter.ConvertString(body)
	if err != nil {
		return Document{}, err
	}

	return Document{
		Text:   plainText(markdown),
		Title:  title,
		Source: SourceHTML,
	}, nil
}

// FromHTML converts every page with a fresh converter, indexing documents by position.
func FromHTML(pages ...[]byte) ([]Document, error) {
	c := NewHTMLConverter()
	docs := make([]Document, 0, len(pages))
	for i, page := range pages {
		d, err := c.Convert(page)
		if err != nil {
			return nil, err
		}
		d.Index = i
		docs = append(docs, d)
	}
	return docs, nil
}

func findTitle(doc *html.Node) string {
	if n := findElement(doc, func(n *html.Node) bool { return n.Data == "title" }); n != nil && n.FirstChild != nil {
		return strings.TrimSpace(n.FirstChild.Data)
	}
	return ""
}

// mainContent renders main, article or [role=main] if present, else the body with
// boilerplate removed.
func mainContent(doc *html.Node) string {
	isMain := func(n *html.Node) bool {
		if n.Data == "main" || n.Data == "article" {
			return true
		}
		for _, a := range n.Attr {
			if a.Key == "role" && a.Val == "main" {
				return true
			}
		}
		return false
	}
	if n := findElement(doc, isMain); n != nil {
		return render(n)
	}

	removeElements(doc, boilerplate)
	if body := findElement(doc, func(n *html.Node) bool { return n.Data == "body" }); body != nil {
		return render(body)
	}
	return ""
}

func findElement(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, match); found != nil {
			return found
		}
	}
	return nil
}

func removeElements(n *html.Node, tags []string) {
	drop := make(map[string]bool, len(tags))
	for _, t := range tags {
		drop[t] = true
	}

	var victims []*html.Node
	var collect func(*html.Node)
	collect = func(node *html.Node) {
		if node.Type == html.ElementNode && drop[node.Data] {
			victims = append(victims, node)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)

	for _, v := range victims {
		if v.Parent != nil {
			v.Parent.RemoveChild(v)
		}
	}
}

func render(n *html.Node) string {
	var sb strings.Builder
	_ = html.Render(&sb, n)
	return sb.String()
}

// plainText strips the markdown syntax that would otherwise be tokenized.
func plainText(markdown string) string {
	text := imageRe.ReplaceAllString(markdown, "")
	text = linkRe.ReplaceAllString(text, "$1")
	text = headingRe.ReplaceAllString(text, "")
	text = emphasisRe.ReplaceAllString(text, "$1$2")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	text = strings.Join(lines, "\n")
	text = excessiveLinesRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
