package render

import (
	"strings"
	"testing"

	"github.com/goliatone/go-notegen/pkg/document"
)

// badgeVisitor is the minimal visitor used to exercise the shared walk.
type badgeVisitor struct{}

func (badgeVisitor) ElementHTML(el document.FormElement, value any) (string, error) {
	return `[` + el.ElementKey + `=` + ValueString(value) + `]`, nil
}

func TestHTML_StructuralKinds(t *testing.T) {
	doc := document.Doc(
		document.Heading(2, document.Text("Vitals")),
		document.Paragraph(
			document.Text("normal ", document.Mark{Type: document.MarkItalic}),
			document.Text("range", document.Mark{Type: document.MarkBold}, document.Mark{Type: document.MarkUnderline}),
			document.HardBreak(),
		),
		&document.Node{Type: document.KindOrderedList, Content: []*document.Node{
			{Type: document.KindListItem, Content: []*document.Node{
				document.Paragraph(document.Text("first")),
			}},
		}},
		&document.Node{Type: document.KindTable, Content: []*document.Node{
			{Type: document.KindTableRow, Content: []*document.Node{
				{Type: document.KindTableHeaderCell, Content: []*document.Node{document.Text("Temp")}},
				{Type: document.KindTableCell, Content: []*document.Node{
					document.Element(document.FormElement{ElementType: document.ElementNumeric, ElementKey: "temp"}),
				}},
			}},
		}},
	)

	out, err := HTML(doc, map[string]any{"temp": "37.2"}, badgeVisitor{})
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}

	for _, want := range []string{
		"<h2>Vitals</h2>",
		"<em>normal </em>",
		"<strong><u>range</u></strong>",
		"<br/>",
		"<ol><li><p>first</p></li></ol>",
		"<table><tbody><tr><th>Temp</th><td>[temp=37.2]</td></tr></tbody></table>",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestHTML_EscapesTextAndAttrs(t *testing.T) {
	doc := document.Doc(document.Paragraph(
		document.Text(`<script>alert("x")</script>`),
		document.Text("link", document.Mark{Type: document.MarkLink, Attrs: map[string]any{"href": `https://example.org/?a=1&b="2"`}}),
	))

	out, err := HTML(doc, nil, badgeVisitor{})
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Fatalf("text not escaped: %s", out)
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Fatalf("expected escaped text: %s", out)
	}
	if !strings.Contains(out, `<a href="https://example.org/?a=1&amp;b=&#34;2&#34;">link</a>`) {
		t.Fatalf("href not escaped as expected: %s", out)
	}
}

func TestHTML_ImageAndUnknownKind(t *testing.T) {
	doc := document.Doc(
		&document.Node{Type: document.KindImage, Attrs: map[string]any{"src": "https://example.org/x.png", "alt": "xray"}},
		&document.Node{Type: "futureKind", Content: []*document.Node{document.Paragraph(document.Text("inner"))}},
		&document.Node{Type: document.KindImage}, // no src: skipped
	)

	out, err := HTML(doc, nil, badgeVisitor{})
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if !strings.Contains(out, `<img src="https://example.org/x.png" alt="xray"/>`) {
		t.Fatalf("image markup missing: %s", out)
	}
	if !strings.Contains(out, "<p>inner</p>") {
		t.Fatalf("unknown kind should render its children: %s", out)
	}
}
