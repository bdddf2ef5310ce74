package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/goliatone/go-notegen/pkg/document"
)

// ElementVisitor renders the formElement leaf for one output target. The rest
// of the tree renders identically across targets through HTML below.
type ElementVisitor interface {
	ElementHTML(el document.FormElement, value any) (string, error)
}

// HTML walks the tree and emits the shared per-node-kind markup, delegating
// every formElement leaf to the visitor with its current value from values.
func HTML(doc *document.Node, values map[string]any, visitor ElementVisitor) (string, error) {
	var builder strings.Builder
	if err := writeNode(&builder, doc, values, visitor); err != nil {
		return "", err
	}
	return builder.String(), nil
}

func writeNode(b *strings.Builder, n *document.Node, values map[string]any, visitor ElementVisitor) error {
	if n == nil {
		return nil
	}
	switch n.Type {
	case document.KindDoc:
		return writeChildren(b, n, values, visitor)
	case document.KindParagraph:
		return writeWrapped(b, "p", n, values, visitor)
	case document.KindHeading:
		level := n.IntAttr("level")
		if level < 1 || level > 6 {
			level = 1
		}
		tag := fmt.Sprintf("h%d", level)
		return writeWrapped(b, tag, n, values, visitor)
	case document.KindBulletList:
		return writeWrapped(b, "ul", n, values, visitor)
	case document.KindOrderedList:
		return writeWrapped(b, "ol", n, values, visitor)
	case document.KindListItem:
		return writeWrapped(b, "li", n, values, visitor)
	case document.KindTable:
		b.WriteString("<table><tbody>")
		if err := writeChildren(b, n, values, visitor); err != nil {
			return err
		}
		b.WriteString("</tbody></table>")
		return nil
	case document.KindTableRow:
		return writeWrapped(b, "tr", n, values, visitor)
	case document.KindTableCell:
		return writeWrapped(b, "td", n, values, visitor)
	case document.KindTableHeaderCell:
		return writeWrapped(b, "th", n, values, visitor)
	case document.KindText:
		writeText(b, n)
		return nil
	case document.KindHardBreak:
		b.WriteString("<br/>")
		return nil
	case document.KindImage:
		writeImage(b, n)
		return nil
	case document.KindFormElement:
		el, ok := document.ElementOf(n)
		if !ok {
			return nil
		}
		markup, err := visitor.ElementHTML(el, values[el.ElementKey])
		if err != nil {
			return fmt.Errorf("render: element %q: %w", el.ElementKey, err)
		}
		b.WriteString(markup)
		return nil
	default:
		// Unknown kinds render their children so future node types degrade
		// to their content instead of disappearing.
		return writeChildren(b, n, values, visitor)
	}
}

func writeChildren(b *strings.Builder, n *document.Node, values map[string]any, visitor ElementVisitor) error {
	for _, child := range n.Content {
		if err := writeNode(b, child, values, visitor); err != nil {
			return err
		}
	}
	return nil
}

func writeWrapped(b *strings.Builder, tag string, n *document.Node, values map[string]any, visitor ElementVisitor) error {
	b.WriteString("<" + tag + ">")
	if err := writeChildren(b, n, values, visitor); err != nil {
		return err
	}
	b.WriteString("</" + tag + ">")
	return nil
}

// writeText emits the escaped text run wrapped by its marks in declared
// order, closing in reverse so the tags nest.
func writeText(b *strings.Builder, n *document.Node) {
	for _, mark := range n.Marks {
		switch mark.Type {
		case document.MarkBold:
			b.WriteString("<strong>")
		case document.MarkItalic:
			b.WriteString("<em>")
		case document.MarkUnderline:
			b.WriteString("<u>")
		case document.MarkLink:
			href, _ := mark.Attrs["href"].(string)
			b.WriteString(`<a href="` + html.EscapeString(href) + `">`)
		}
	}
	b.WriteString(html.EscapeString(n.Text))
	for i := len(n.Marks) - 1; i >= 0; i-- {
		switch n.Marks[i].Type {
		case document.MarkBold:
			b.WriteString("</strong>")
		case document.MarkItalic:
			b.WriteString("</em>")
		case document.MarkUnderline:
			b.WriteString("</u>")
		case document.MarkLink:
			b.WriteString("</a>")
		}
	}
}

func writeImage(b *strings.Builder, n *document.Node) {
	src := n.StringAttr("src")
	if src == "" {
		return
	}
	alt := n.StringAttr("alt")
	b.WriteString(`<img src="` + html.EscapeString(src) + `" alt="` + html.EscapeString(alt) + `"/>`)
}
