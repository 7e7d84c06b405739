package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TreeHTML is a small phylotree-style document: a preamble table, the
// mt-MRCA title row and a few nested haplogroups with accessions.
const TreeHTML = `<html><head><title>mtDNA tree</title></head><body>
<table>
<tr><td>Phylogenetic tree of global human mtDNA variation</td></tr>
</table>
<table>
<tr><td colspan="3">mt-MRCA (RSRS)</td></tr>
<tr><td></td><td>L0</td><td>A263G C16187T</td><td></td><td></td><td></td><td></td></tr>
<tr><td></td><td></td><td>L0a</td><td>G125A  T1C</td><td></td><td>JN214480</td><td></td></tr>
<tr><td></td><td></td><td></td><td>L0a1</td><td>C152T!</td><td>EU092679</td><td>EU092680</td></tr>
<tr><td></td><td></td><td>L0b</td><td>(T2887C)</td><td></td><td></td><td></td></tr>
<tr><td></td><td>L1</td><td>G3010A 960.XC</td><td></td><td></td><td></td><td></td></tr>
<tr><td></td><td></td><td>L1a</td><td>A16129G</td><td></td><td></td><td></td></tr>
</table>
</body></html>
`

// WriteFile writes content to name inside a fresh temporary directory and
// returns its path.
func WriteFile(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// WriteTreeHTML writes TreeHTML, optionally with extra rows appended to the
// tree table, and returns its path.
func WriteTreeHTML(t testing.TB, extraRows ...string) string {
	t.Helper()
	return WriteFile(t, "tree.htm", TreeHTMLWithRows(extraRows...))
}

// TreeHTMLWithRows returns TreeHTML with extra rows appended to the tree table.
func TreeHTMLWithRows(extraRows ...string) string {
	return strings.Replace(TreeHTML, "</table>\n</body>", strings.Join(extraRows, "\n")+"</table>\n</body>", 1)
}
