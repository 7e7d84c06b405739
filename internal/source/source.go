// Package source reads phylotree HTML documents into ordered tables of rows
// of cell texts.
//
// The document is decoded from its legacy character set first and then
// parsed with golang.org/x/net/html. Every <table> becomes one Table in
// document order; a table owns the <tr> elements whose nearest enclosing
// table it is, and a row owns the <td> elements whose nearest enclosing row
// it is.
package source

import (
	"bytes"
	"fmt"
	"io"
	"iter"
	"os"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// DefaultEncoding is the character set of the published tree documents.
const DefaultEncoding = "windows-1252"

// Document is the ordered list of tables found in one HTML document.
type Document struct {
	Path   string
	Tables []Table
}

// Table is the ordered list of rows of one <table>.
type Table struct {
	Rows []Row
}

// Row is one <tr>: the raw text of each cell and the text of the whole row.
type Row struct {
	Cells []string
	Text  string
}

// Rows yields every row of every table in document order.
func (d *Document) Rows() iter.Seq[Row] {
	return func(yield func(Row) bool) {
		for _, t := range d.Tables {
			for _, r := range t.Rows {
				if !yield(r) {
					return
				}
			}
		}
	}
}

// RowCount returns the total number of rows.
func (d *Document) RowCount() int {
	n := 0
	for _, t := range d.Tables {
		n += len(t.Rows)
	}
	return n
}

// UnknownEncodingError is returned for a character set name that the HTML
// encoding index does not know.
type UnknownEncodingError struct {
	Name string
}

func (e *UnknownEncodingError) Error() string {
	return fmt.Sprintf("unknown encoding %q", e.Name)
}

// LookupEncoding resolves a WHATWG encoding label such as "windows-1252",
// "cp1252" or "utf-8". An empty name selects DefaultEncoding.
func LookupEncoding(name string) (encoding.Encoding, error) {
	if name == "" {
		name = DefaultEncoding
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, &UnknownEncodingError{Name: name}
	}
	return enc, nil
}

// ReadFile reads and parses the HTML document at path, decoding it from the
// named character set.
func ReadFile(path, encodingName string) (*Document, error) {
	enc, err := LookupEncoding(encodingName)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer func() { _ = f.Close() }()

	doc, err := Parse(transform.NewReader(f, enc.NewDecoder()))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	doc.Path = path
	return doc, nil
}

// Parse parses already decoded HTML.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	doc := &Document{}
	var findTables func(*html.Node)
	findTables = func(n *html.Node) {
		if isElement(n, "table") {
			doc.Tables = append(doc.Tables, Table{Rows: collectRows(n)})
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findTables(c)
		}
	}
	findTables(root)
	return doc, nil
}

// collectRows returns the rows owned by table.
func collectRows(table *html.Node) []Row {
	var rows []Row
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch {
			case isElement(c, "table"):
				// nested tables own their rows
			case isElement(c, "tr"):
				rows = append(rows, extractRow(c))
			default:
				walk(c)
			}
		}
	}
	walk(table)
	return rows
}

// extractRow collects the cells owned by tr.
// Structure: <tr><td>...</td><td>...</td></tr>
func extractRow(tr *html.Node) Row {
	row := Row{Text: extractText(tr)}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch {
			case isElement(c, "table"):
			case isElement(c, "td"):
				row.Cells = append(row.Cells, extractText(c))
			default:
				walk(c)
			}
		}
	}
	walk(tr)
	return row
}

func extractText(n *html.Node) string {
	var buf bytes.Buffer
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}
