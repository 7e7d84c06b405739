package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/phylotree/internal/testutil"
)

func TestParse_TablesAndRows(t *testing.T) {
	doc, err := Parse(strings.NewReader(testutil.TreeHTML))
	require.NoError(t, err)

	require.Len(t, doc.Tables, 2)
	assert.Len(t, doc.Tables[0].Rows, 1)
	assert.Len(t, doc.Tables[1].Rows, 7)
	assert.Equal(t, 8, doc.RowCount())

	title := doc.Tables[1].Rows[0]
	assert.Equal(t, []string{"mt-MRCA (RSRS)"}, title.Cells)
	assert.Contains(t, title.Text, "mt-MRCA")

	l0a := doc.Tables[1].Rows[2]
	assert.Equal(t, []string{"", "", "L0a", "G125A  T1C", "", "JN214480", ""}, l0a.Cells)
}

func TestParse_NestedMarkupInCells(t *testing.T) {
	input := `<table><tr><td><p><b>L0</b> </p></td><td><span>A263G</span> <span>C16187T</span></td></tr></table>`

	doc, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, doc.Tables, 1)
	require.Len(t, doc.Tables[0].Rows, 1)

	row := doc.Tables[0].Rows[0]
	assert.Equal(t, []string{"L0 ", "A263G C16187T"}, row.Cells)
	assert.Equal(t, "L0 A263G C16187T", row.Text)
}

func TestParse_NestedTablesOwnTheirRows(t *testing.T) {
	input := `<table>
<tr><td>outer</td><td><table><tr><td>inner</td></tr></table></td></tr>
</table>`

	doc, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, doc.Tables, 2)

	outer := doc.Tables[0]
	require.Len(t, outer.Rows, 1)
	assert.Equal(t, []string{"outer", "inner"}, outer.Rows[0].Cells)

	inner := doc.Tables[1]
	require.Len(t, inner.Rows, 1)
	assert.Equal(t, []string{"inner"}, inner.Rows[0].Cells)
}

func TestDocument_Rows(t *testing.T) {
	doc, err := Parse(strings.NewReader(testutil.TreeHTML))
	require.NoError(t, err)

	var texts []string
	for row := range doc.Rows() {
		texts = append(texts, strings.TrimSpace(row.Text))
	}
	require.Len(t, texts, 8)
	assert.True(t, strings.HasPrefix(texts[0], "Phylogenetic tree"))
	assert.Equal(t, "mt-MRCA (RSRS)", texts[1])
}

func TestReadFile_Windows1252(t *testing.T) {
	// 0xA0 is a non-breaking space and 0x92 a right single quote in windows-1252
	content := []byte("<table><tr><td>L1\x922\xA0</td><td>C152T</td></tr></table>")
	path := filepath.Join(t.TempDir(), "tree.htm")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	doc, err := ReadFile(path, "")
	require.NoError(t, err)
	assert.Equal(t, path, doc.Path)
	require.Len(t, doc.Tables, 1)
	assert.Equal(t, []string{"L1’2\u00a0", "C152T"}, doc.Tables[0].Rows[0].Cells)
}

func TestReadFile_UTF8(t *testing.T) {
	path := testutil.WriteFile(t, "tree.htm", "<table><tr><td>L1’2</td></tr></table>")

	doc, err := ReadFile(path, "utf-8")
	require.NoError(t, err)
	assert.Equal(t, []string{"L1’2"}, doc.Tables[0].Rows[0].Cells)
}

func TestReadFile_Errors(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.htm"), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := testutil.WriteFile(t, "tree.htm", "<table></table>")
	_, err = ReadFile(path, "klingon")
	var encErr *UnknownEncodingError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, "klingon", encErr.Name)
}

func TestLookupEncoding(t *testing.T) {
	for _, name := range []string{"", "windows-1252", "cp1252", "latin1", "utf-8", "UTF-8"} {
		_, err := LookupEncoding(name)
		assert.NoError(t, err, name)
	}
}
