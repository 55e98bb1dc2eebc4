package conv

import (
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

var (
	extensions = parser.CommonExtensions | parser.NoEmptyLineBeforeBlock
	htmlFlags  = html.CommonFlags | html.HrefTargetBlank

	panelPolicy = bluemonday.NewPolicy()
	tgPolicy    = bluemonday.NewPolicy()
)

func init() {
	// The chat panel renders assistant replies as HTML inside the host's
	// embedded browser surface; structural tags only, no scripts or styles.
	panelPolicy.AllowElements(
		"p", "br", "b", "strong", "i", "em", "u", "s", "del",
		"code", "pre", "blockquote", "ul", "ol", "li",
		"h1", "h2", "h3", "h4", "table", "thead", "tbody", "tr", "th", "td",
	)
	panelPolicy.AllowAttrs("href").OnElements("a")
	panelPolicy.AllowAttrs("class").OnElements("code")

	// Allowed tags https://core.telegram.org/bots/api#html-style
	tgPolicy.AllowElements("b", "strong", "i", "em", "u", "ins", "s", "strike", "del", "code", "pre", "blockquote")
	tgPolicy.AllowAttrs("href").OnElements("a")
	tgPolicy.AllowAttrs("class").OnElements("code")
}

func render(md []byte) []byte {
	p := parser.NewWithExtensions(extensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags})
	return markdown.Render(p.Parse(md), renderer)
}

// MarkdownToPanelHTML renders a reply for the embedded chat panel.
func MarkdownToPanelHTML(md []byte) string {
	return string(panelPolicy.SanitizeBytes(render(md)))
}

// MarkdownToTelegramHTML renders a reply for the Telegram transport.
func MarkdownToTelegramHTML(md []byte) string {
	return string(tgPolicy.SanitizeBytes(render(md)))
}
