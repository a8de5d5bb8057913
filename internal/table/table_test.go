package table

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestNormalizeColumn(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Player 1", "player_1"},
		{"Pl 1 hand", "pl_1_hand"},
		{" Date ", "date"},
		{"match_id", "match_id"},
		{"Surface/Type (raw)", "surface_type_raw"},
		{"__x__", "x"},
		{"!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeColumn(tt.in))
		})
	}
}

func TestParse_UTF8(t *testing.T) {
	data := []byte("match_id,Player 1,Player 2,Surface\n" +
		"20251221-M-X-F-A_B-C_D,Alexander Blockx,Learner Tien,Hard\n" +
		"20251222-M-X-F-A_B-C_D,José Martínez,\"Tien, Learner\",Clay\n")

	tbl, err := Parse("matches.csv", data)
	require.NoError(t, err)

	assert.Equal(t, EncodingUTF8, tbl.Encoding)
	assert.Equal(t, ',', tbl.Delimiter)
	assert.Equal(t, []string{"match_id", "player_1", "player_2", "surface"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "José Martínez", tbl.Rows[1][1])
	assert.Equal(t, "Tien, Learner", tbl.Rows[1][2])
	assert.Equal(t, 2, tbl.Index("player_2"))
	assert.Equal(t, -1, tbl.Index("umpire"))
	assert.True(t, tbl.Has("surface"))
}

func TestParse_BOMAndSemicolon(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("A;B;C\n1;2;3\n4;;6\n")...)

	tbl, err := Parse("x.csv", data)
	require.NoError(t, err)

	assert.Equal(t, ';', tbl.Delimiter)
	assert.Equal(t, []string{"a", "b", "c"}, tbl.Columns)
	assert.Equal(t, 1, tbl.MissingCells())
}

func TestParse_Windows1252(t *testing.T) {
	// "José" with 0xE9 and a right single quote 0x92, both valid cp1252.
	data := []byte("name,note\nJos\xe9 Mart\xednez,it\x92s\n")

	tbl, err := Parse("legacy.csv", data)
	require.NoError(t, err)

	assert.Equal(t, EncodingWindows1252, tbl.Encoding)
	assert.Equal(t, "José Martínez", tbl.Rows[0][0])
	assert.Equal(t, "it’s", tbl.Rows[0][1])
}

func TestParse_Latin1Fallback(t *testing.T) {
	// 0x81 is undefined in cp1252, so latin-1 must be chosen.
	data := []byte("name\nA\x81B\n")

	tbl, err := Parse("latin.csv", data)
	require.NoError(t, err)

	assert.Equal(t, EncodingLatin1, tbl.Encoding)
	assert.Equal(t, "A\u0081B", tbl.Rows[0][0])
}

func TestParse_Tab(t *testing.T) {
	tbl, err := Parse("x.tsv", []byte("a\tb\n1\t2\n"))
	require.NoError(t, err)
	assert.Equal(t, '\t', tbl.Delimiter)
	assert.Equal(t, [][]string{{"1", "2"}}, tbl.Rows)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"empty file", "", ErrHeader},
		{"blank file", "\n\n  \n", ErrHeader},
		{"duplicate normalized columns", "Player 1,player_1\nx,y\n", ErrHeader},
		{"row wider than header", "a,b\n1,2\n3,4,5\n", ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("bad.csv", []byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestParse_ShortRowsAndStrayQuotes(t *testing.T) {
	data := "match_id,player_1,player_2\n" +
		"1,Dan \"The Man\" Evans,Hugo Gaston\n" +
		"Total matches: 1\n"

	tbl, err := Parse("footer.csv", []byte(data))
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"1", `Dan "The Man" Evans`, "Hugo Gaston"},
		{"Total matches: 1"},
	}, tbl.Rows)
	assert.Equal(t, 2, tbl.MissingCells())
}

func TestParse_UnnamedColumn(t *testing.T) {
	tbl, err := Parse("idx.csv", []byte(",name\n0,Gael Monfils\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"unnamed_0", "name"}, tbl.Columns)
}

func TestLoad_NotFound(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.csv"))
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = Load(dir)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "m.csv", []byte("a,b\n1,2\n"))

	tbl, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, tbl.Source)
	assert.Len(t, tbl.Rows, 1)
}

func TestSniffDelimiter(t *testing.T) {
	tests := []struct {
		name string
		text string
		want rune
	}{
		{"comma", "a,b,c\n1,2,3\n", ','},
		{"semicolon with commas in quotes", "a;b\n\"1,5\";2\n", ';'},
		{"pipe", "a|b|c\nx|y|z\n", '|'},
		{"single column", "name\nx\n", ','},
		{"inconsistent falls back to header", "a,b,c\n1,2\n", ','},
		{"empty", "", ','},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, string(tt.want), string(SniffDelimiter(tt.text)))
		})
	}
}

func TestMeasure(t *testing.T) {
	dir := t.TempDir()
	var b strings.Builder
	b.WriteString("\xEF\xBB\xBFmatch_id;Player 1;Player 2\n")
	for i := 0; i < 5000; i++ {
		b.WriteString("m;Gael Monfils;Learner Tien\n")
	}
	path := writeFile(t, dir, "big.csv", []byte(b.String()))

	d, err := Measure(path)
	require.NoError(t, err)

	assert.Equal(t, 5000, d.Rows)
	assert.Equal(t, 3, d.Columns)
	assert.Equal(t, ";", d.Delimiter)
	assert.Equal(t, EncodingUTF8, d.Encoding)
	assert.Equal(t, []string{"match_id", "Player 1", "Player 2"}, d.Header)
}

func TestMeasure_Windows1252(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "legacy.csv", []byte("Nom,Pays\nJos\xe9,ESP\n"))

	d, err := Measure(path)
	require.NoError(t, err)
	assert.Equal(t, EncodingWindows1252, d.Encoding)
	assert.Equal(t, 1, d.Rows)
}

func TestMeasure_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Measure(filepath.Join(dir, "nope.csv"))
	assert.True(t, errors.Is(err, ErrNotFound))

	empty := writeFile(t, dir, "empty.csv", nil)
	_, err = Measure(empty)
	assert.True(t, errors.Is(err, ErrHeader))
}

func TestWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	paths, err := WriteFiles(dir,
		File{Name: "players.csv", Columns: []string{"player_id", "display_name"}, Rows: [][]string{{"p_1", "Gael, Monfils"}}},
		File{Name: "matches.csv", Columns: []string{"player_id_1"}, Rows: nil},
	)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, "player_id,display_name\np_1,\"Gael, Monfils\"\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "temporary files must not remain")

	info, err := os.Stat(paths[1])
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestWriteFiles_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	rows := [][]string{{"1", "José"}, {"2", "with \"quotes\""}}

	paths, err := WriteFiles(dir, File{Name: "t.csv", Columns: []string{"id", "name"}, Rows: rows})
	require.NoError(t, err)

	tbl, err := Load(paths[0])
	require.NoError(t, err)
	assert.Equal(t, rows, tbl.Rows)
}
