package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp moves the test into a fresh temp directory so the loader's
// relative probe paths resolve against it.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
	return dir
}

func writeDataFile(t *testing.T, dir string, ds Dataset, content string) string {
	t.Helper()
	dataDir := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))
	path := filepath.Join(dataDir, ds.FileName())
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_ReadCountsAndSkips(t *testing.T) {
	dir := chdirTemp(t)
	writeDataFile(t, dir, Cleaned,
		"InvoiceNo,StockCode,Quantity,UnitPrice\n"+
			"536365,71053,6,3.39\n"+
			"536366,22633\n"+ // short row: dropped
			"\n"+ // empty line: dropped
			"536367,84879,32,1.69\n")

	loader := NewLoader(zerolog.Nop())
	records, rep, err := loader.Read(Cleaned)

	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, 2, rep.RowsKept)
	assert.Equal(t, 1, rep.SkippedShort)
	assert.Equal(t, 1, rep.SkippedEmpty)
	assert.Equal(t, 2, rep.Skipped())
	assert.NotEmpty(t, rep.Path)

	// Physical data lines minus dropped lines equals the kept count.
	assert.Equal(t, 4-rep.Skipped(), rep.RowsKept)
}

func TestLoader_HeaderIsNeverData(t *testing.T) {
	dir := chdirTemp(t)
	writeDataFile(t, dir, Cleaned, "InvoiceNo,StockCode,Quantity,UnitPrice\n")

	loader := NewLoader(zerolog.Nop())
	records, rep, err := loader.Read(Cleaned)

	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, 0, rep.RowsKept)
}

func TestLoader_MalformedFieldKeepsRow(t *testing.T) {
	dir := chdirTemp(t)
	writeDataFile(t, dir, Cleaned,
		"InvoiceNo,StockCode,Quantity,UnitPrice\n"+
			"536365,71053,not-a-number,3.39\n")

	loader := NewLoader(zerolog.Nop())
	records, rep, err := loader.Read(Cleaned)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1, rep.RowsKept)
	assert.Nil(t, records[0].Quantity)
	assert.NotNil(t, records[0].UnitPrice)
	assert.Nil(t, records[0].TotalPrice)
}

func TestLoader_MidReadFailureDiscardsPartialRows(t *testing.T) {
	dir := chdirTemp(t)
	// A line past the scanner's 1 MiB token cap aborts the read after
	// the first row has already been parsed.
	writeDataFile(t, dir, Cleaned,
		"InvoiceNo,StockCode,Quantity,UnitPrice\n"+
			"536365,71053,6,3.39\n"+
			strings.Repeat("x", 2*1024*1024)+"\n")

	loader := NewLoader(zerolog.Nop())
	records, rep, err := loader.Read(Cleaned)

	require.Error(t, err)
	assert.Nil(t, records)
	assert.Equal(t, 0, rep.RowsKept)
}

func TestLoader_MissingFileIsNotFatal(t *testing.T) {
	chdirTemp(t)

	loader := NewLoader(zerolog.Nop())
	records, rep, err := loader.Read(Full)

	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, "", rep.Path)
	assert.Equal(t, 0, rep.RowsKept)
}

func TestLoader_ProbeOrder(t *testing.T) {
	// File placed in the parent-relative data directory, with the
	// working directory one level below it.
	dir := chdirTemp(t)
	sub := filepath.Join(dir, "app")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	writeDataFile(t, dir, Cleaned, "InvoiceNo,Quantity,UnitPrice\n1,2,3.0\n")
	require.NoError(t, os.Chdir(sub))

	loader := NewLoader(zerolog.Nop())
	records, rep, err := loader.Read(Cleaned)

	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, filepath.Join("..", "data", Cleaned.FileName()), rep.Path)
}

func TestLoader_BareFilenameFallback(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, Cleaned.FileName())
	require.NoError(t, os.WriteFile(path, []byte("InvoiceNo,Quantity,UnitPrice\n1,2,3.0\n"), 0o644))

	loader := NewLoader(zerolog.Nop())
	records, rep, err := loader.Read(Cleaned)

	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Contains(t, rep.Path, Cleaned.FileName())
}
