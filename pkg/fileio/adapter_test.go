package fileio_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leapstack-labs/leapxfer/internal/testutil"
	"github.com/leapstack-labs/leapxfer/pkg/core"
	"github.com/leapstack-labs/leapxfer/pkg/fileio"
	"github.com/leapstack-labs/leapxfer/pkg/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVScenario(t *testing.T) {
	path := testutil.WriteFile(t, "a.csv", "id,name\n1,x\n2,y\n")
	a := fileio.New(path, fileio.WithLogger(testutil.NewTestLogger(t)))
	assert.Equal(t, fileio.StateUnloaded, a.State())

	n, err := a.Read()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, fileio.StateLoaded, a.State())

	preview, err := a.Preview(nil, 1)
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"id": int64(1), "name": "x"}}, preview.Records())

	out, err := a.Export([]string{"name"})
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, out.Names())
	assert.Equal(t, 2, out.Len())

	schema, err := a.Schema()
	require.NoError(t, err)
	assert.Equal(t, []core.Column{{Name: "id", Type: "int64"}, {Name: "name", Type: "string"}}, schema)
}

func TestPreview_Bounds(t *testing.T) {
	path := testutil.WriteFile(t, "rows.csv", "n\n1\n2\n3\n4\n")
	a := fileio.New(path)

	for _, tt := range []struct{ limit, want int }{{0, 0}, {1, 1}, {4, 4}, {9, 4}} {
		f, err := a.Preview(nil, tt.limit)
		require.NoError(t, err)
		assert.Equal(t, tt.want, f.Len(), "limit %d", tt.limit)
	}

	_, err := a.Preview(nil, -1)
	assert.ErrorIs(t, err, core.ErrInvalid)
}

func TestLazyRead(t *testing.T) {
	t.Run("schema loads on first use", func(t *testing.T) {
		a := fileio.New(testutil.WriteFile(t, "lazy.tsv", "a\tb\n1\t2.5\n"))
		schema, err := a.Schema()
		require.NoError(t, err)
		assert.Equal(t, []core.Column{{Name: "a", Type: "int64"}, {Name: "b", Type: "float64"}}, schema)
		assert.Equal(t, fileio.StateLoaded, a.State())
	})

	t.Run("read error propagates", func(t *testing.T) {
		a := fileio.New(filepath.Join(t.TempDir(), "missing.csv"))
		_, err := a.Export(nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrIO)
		assert.Contains(t, err.Error(), "Read failed")
		assert.Equal(t, fileio.StateUnloaded, a.State())
	})

	t.Run("reset rereads", func(t *testing.T) {
		path := testutil.WriteFile(t, "grow.csv", "n\n1\n")
		a := fileio.New(path)
		_, err := a.Read()
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(path, []byte("n\n1\n2\n"), 0o600))
		f, err := a.Export(nil)
		require.NoError(t, err)
		assert.Equal(t, 1, f.Len(), "cached frame is reused")

		a.Reset()
		assert.Equal(t, fileio.StateUnloaded, a.State())
		f, err = a.Export(nil)
		require.NoError(t, err)
		assert.Equal(t, 2, f.Len())
	})
}

func TestUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()

	a := fileio.New(filepath.Join(dir, "report.pdf"))
	_, err := a.Read()
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), ".pdf")

	f, err := frame.FromRows([]string{"id"}, [][]any{{1}})
	require.NoError(t, err)
	out := filepath.Join(dir, "out.PDF")
	_, err = a.Write(f, out, nil)
	assert.ErrorIs(t, err, core.ErrUnsupportedFormat)
	assert.NoFileExists(t, out)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.False(t, fileio.Supported("x.pdf"))
	assert.True(t, fileio.Supported("X.CSV"))
}

func TestDelimitedEdgeCases(t *testing.T) {
	t.Run("bom stripped", func(t *testing.T) {
		a := fileio.New(testutil.WriteFile(t, "bom.csv", "\ufeffid,name\n1,x\n"))
		schema, err := a.Schema()
		require.NoError(t, err)
		assert.Equal(t, "id", schema[0].Name)
	})

	t.Run("custom delimiter", func(t *testing.T) {
		a := fileio.New(testutil.WriteFile(t, "semi.txt", "id;name\n1;x\n"), fileio.WithDelimiter(';'))
		f, err := a.Export(nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "name"}, f.Names())
	})

	t.Run("duplicate headers", func(t *testing.T) {
		a := fileio.New(testutil.WriteFile(t, "dup.csv", "id,id,id\n1,2,3\n"))
		f, err := a.Export(nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "id.1", "id.2"}, f.Names())
	})

	t.Run("short rows padded with nulls", func(t *testing.T) {
		a := fileio.New(testutil.WriteFile(t, "short.csv", "a,b\n1\n2,3\n"))
		f, err := a.Export(nil)
		require.NoError(t, err)
		b, _ := f.Column("b")
		assert.Equal(t, []any{nil, int64(3)}, b.Values)
	})

	t.Run("long rows rejected", func(t *testing.T) {
		a := fileio.New(testutil.WriteFile(t, "long.csv", "a\n1,2\n"))
		_, err := a.Read()
		assert.ErrorIs(t, err, core.ErrIO)
	})

	t.Run("empty file", func(t *testing.T) {
		a := fileio.New(testutil.WriteFile(t, "empty.csv", ""))
		n, err := a.Read()
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestJSON_KeyOrderAndMissingKeys(t *testing.T) {
	a := fileio.New(testutil.WriteFile(t, "people.json",
		`[{"name":"ada","id":1},{"id":2,"score":2.5,"tags":["x"]}]`))
	f, err := a.Export(nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "id", "score", "tags"}, f.Names())
	assert.Equal(t, []core.Kind{core.KindString, core.KindInt, core.KindFloat, core.KindString}, f.Kinds())
	assert.Equal(t, []any{"ada", int64(1), nil, nil}, f.Row(0))
	assert.Equal(t, []any{nil, int64(2), 2.5, `["x"]`}, f.Row(1))
}

func TestJSON_NotAnArray(t *testing.T) {
	a := fileio.New(testutil.WriteFile(t, "obj.json", `{"id":1}`))
	_, err := a.Read()
	assert.ErrorIs(t, err, core.ErrIO)
}

func fixture(t *testing.T) *frame.Frame {
	t.Helper()
	at := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	f, err := frame.FromRows(
		[]string{"id", "name", "score", "active", "joined"},
		[][]any{
			{1, "ada, countess", 9.5, true, at},
			{2, `say "hi"`, 0.25, false, at.Add(90 * time.Minute)},
			{3, nil, nil, true, nil},
		},
	)
	require.NoError(t, err)
	return f
}

func TestWriteReadRoundTrip(t *testing.T) {
	for _, ext := range fileio.Extensions() {
		t.Run(ext, func(t *testing.T) {
			if !fileio.Writable("out" + ext) {
				t.Skipf("%s is read-only", ext)
			}
			want := fixture(t)
			path := filepath.Join(t.TempDir(), "nested", "out"+ext)

			res, err := fileio.New("unused.csv").Write(want, path, nil)
			require.NoError(t, err)
			assert.Equal(t, fileio.WriteResult{Count: 3, Path: path}, res)

			got, err := fileio.New(path).Export(nil)
			require.NoError(t, err)
			assert.Equal(t, want.Names(), got.Names())
			assert.Equal(t, want.Kinds(), got.Kinds())
			assert.Equal(t, want.Rows(), got.Rows())
		})
	}
}

func TestWrite_Delimiters(t *testing.T) {
	f, err := frame.FromRows([]string{"a", "b"}, [][]any{{1, 2.0}})
	require.NoError(t, err)
	dir := t.TempDir()
	a := fileio.New("in.csv", fileio.WithDelimiter('|'))

	tests := []struct {
		name string
		want string
	}{
		{"out.csv", "a,b\n1,2.0\n"},
		{"out.tsv", "a\tb\n1\t2.0\n"},
		{"out.txt", "a|b\n1|2.0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			_, err := a.Write(f, path, nil)
			require.NoError(t, err)
			b, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(b))
		})
	}
}

func TestWrite_Projection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids.jsonl")
	a := fileio.New("in.csv")

	res, err := a.Write(fixture(t), path, []string{"id"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Count)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\"id\":1}\n{\"id\":2}\n{\"id\":3}\n", string(b))

	_, err = a.Write(fixture(t), filepath.Join(t.TempDir(), "x.csv"), []string{"missing"})
	assert.ErrorIs(t, err, core.ErrProjection)
}

func TestXLS_ReadOnly(t *testing.T) {
	f, err := frame.FromRows([]string{"id"}, [][]any{{1}})
	require.NoError(t, err)

	tests := []struct {
		path     string
		writable bool
	}{
		{"out.xls", false},
		{"OUT.XLS", false},
		{"out.xlsx", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.True(t, fileio.Supported(tt.path))
			assert.Equal(t, tt.writable, fileio.Writable(tt.path))

			out := filepath.Join(t.TempDir(), tt.path)
			_, err := fileio.New("in.csv").Write(f, out, nil)
			if tt.writable {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, core.ErrUnsupportedFormat)
			assert.Contains(t, err.Error(), "read-only")
			assert.NoFileExists(t, out)
		})
	}
}

func TestXLS_RejectsNonBIFFContent(t *testing.T) {
	dir := t.TempDir()
	xlsx := filepath.Join(dir, "book.xlsx")
	_, err := fileio.New("in.csv").Write(fixture(t), xlsx, nil)
	require.NoError(t, err)

	b, err := os.ReadFile(xlsx)
	require.NoError(t, err)
	renamed := filepath.Join(dir, "book.xls")
	require.NoError(t, os.WriteFile(renamed, b, 0o644))

	a := fileio.New(renamed)
	_, err = a.Read()
	assert.ErrorIs(t, err, core.ErrIO)
	assert.Contains(t, err.Error(), "as xls")
	assert.Equal(t, fileio.StateUnloaded, a.State())
}

func TestExcel_IntegralFloatsReadAsInt(t *testing.T) {
	f, err := frame.FromRows([]string{"price", "ratio"}, [][]any{{2.0, 0.5}, {3.0, 1.0}})
	require.NoError(t, err)
	require.Equal(t, []core.Kind{core.KindFloat, core.KindFloat}, f.Kinds())

	path := filepath.Join(t.TempDir(), "prices.xlsx")
	_, err = fileio.New("in.csv").Write(f, path, nil)
	require.NoError(t, err)

	got, err := fileio.New(path).Export(nil)
	require.NoError(t, err)
	assert.Equal(t, []core.Kind{core.KindInt, core.KindFloat}, got.Kinds())
	assert.Equal(t, [][]any{{int64(2), 0.5}, {int64(3), 1.0}}, got.Rows())
}

func TestParquet_CategoryColumns(t *testing.T) {
	f, err := frame.FromRows([]string{"id", "city"}, [][]any{
		{1, "oslo"},
		{2, "lima"},
		{3, nil},
		{4, "oslo"},
	})
	require.NoError(t, err)
	require.NoError(t, f.AsCategory("city"))

	path := filepath.Join(t.TempDir(), "cities.parquet")
	_, err = fileio.New("in.csv").Write(f, path, nil)
	require.NoError(t, err)

	got, err := fileio.New(path).Export(nil)
	require.NoError(t, err)
	assert.Equal(t, []core.Kind{core.KindInt, core.KindCategory}, got.Kinds())
	assert.Equal(t, f.Rows(), got.Rows())

	t.Run("plain strings stay strings", func(t *testing.T) {
		plain := filepath.Join(t.TempDir(), "plain.parquet")
		_, err := fileio.New("in.csv").Write(fixture(t), plain, []string{"name"})
		require.NoError(t, err)

		got, err := fileio.New(plain).Schema()
		require.NoError(t, err)
		assert.Equal(t, []core.Column{{Name: "name", Type: "string"}}, got)
	})

	t.Run("category reads back as string from json", func(t *testing.T) {
		js := filepath.Join(t.TempDir(), "cities.json")
		_, err := fileio.New("in.csv").Write(f, js, []string{"city"})
		require.NoError(t, err)

		got, err := fileio.New(js).Export(nil)
		require.NoError(t, err)
		assert.Equal(t, []core.Kind{core.KindString}, got.Kinds())
		assert.Equal(t, []any{"oslo", "lima", nil, "oslo"}, got.Series()[0].Values)
	})
}
