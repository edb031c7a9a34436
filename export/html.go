package export

import (
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"dgb/datatable"
)

// WriteHTML writes r as a Bootstrap styled table. Every data cell carries
// its cell key in a data-cell-key attribute.
func WriteHTML(w io.Writer, r *datatable.Rendering) error {
	if r.IsBlank() {
		return nil
	}
	if err := html.Render(w, HTMLNode(r)); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// HTMLNode builds the table element for r, wrapped in a responsive
// container when the rendering asks for one.
func HTMLNode(r *datatable.Rendering) *html.Node {
	classes := []string{"table"}
	if r.Striped {
		classes = append(classes, "table-striped")
	}
	if r.Bordered {
		classes = append(classes, "table-bordered")
	}
	if r.Condensed {
		classes = append(classes, "table-sm")
	}
	tbl := element(atom.Table, "class", strings.Join(classes, " "))

	if len(r.Header) > 0 {
		tr := element(atom.Tr)
		for _, h := range r.Header {
			tr.AppendChild(textElement(atom.Th, h.Text, "scope", "col"))
		}
		thead := element(atom.Thead)
		thead.AppendChild(tr)
		tbl.AppendChild(thead)
	}

	tbody := element(atom.Tbody)
	if r.Empty {
		for _, h := range r.RowHeaders {
			tr := element(atom.Tr)
			tr.AppendChild(textElement(atom.Th, h.Text, "scope", "row"))
			tbody.AppendChild(tr)
		}
		tr := element(atom.Tr)
		tr.AppendChild(textElement(atom.Td, r.EmptyText,
			"colspan", strconv.Itoa(max(r.ColumnCount, 1)),
			"class", "text-center"))
		tbody.AppendChild(tr)
	} else {
		for i, body := range r.Body {
			tr := element(atom.Tr)
			if i < len(r.RowHeaders) {
				tr.AppendChild(textElement(atom.Th, r.RowHeaders[i].Text, "scope", "row"))
			}
			for _, cell := range body {
				tr.AppendChild(textElement(atom.Td, cell.Text, "data-cell-key", string(cell.Key)))
			}
			tbody.AppendChild(tr)
		}
	}
	tbl.AppendChild(tbody)

	if !r.Responsive {
		return tbl
	}
	div := element(atom.Div, "class", "table-responsive")
	div.AppendChild(tbl)
	return div
}

// element creates an element node with attributes given as key, value pairs.
func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func textElement(a atom.Atom, text string, attrs ...string) *html.Node {
	n := element(a, attrs...)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}
