package memstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePlainSeed(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "codes.txt")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))
	return path
}

func writeGzipSeed(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "codes.txt.gz")

	f, err := os.Create(path)
	require.NoError(t, err)
	zw := pgzip.NewWriter(f)
	_, err = zw.Write([]byte(lines))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func TestLoadPromoCodes_Plain(t *testing.T) {
	r := newRegistry()
	ctx := context.Background()

	path := writePlainSeed(t, "HAPPYHRS\n\nFIFTYOFF\nhappyhrs\n")

	n, err := LoadPromoCodes(ctx, r, path, decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.Equal(t, 2, n, "blank lines and duplicates are skipped")

	c, err := r.Get(ctx, "HAPPYHRS")
	require.NoError(t, err)
	assert.False(t, c.Used)
	assert.True(t, c.Percent.Equal(decimal.NewFromInt(10)))

	_, err = r.Get(ctx, "FIFTYOFF")
	require.NoError(t, err)
}

func TestLoadPromoCodes_Gzip(t *testing.T) {
	r := newRegistry()
	ctx := context.Background()

	path := writeGzipSeed(t, "HAPPYHRS\nFIFTYOFF\n")

	n, err := LoadPromoCodes(ctx, r, path, decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestLoadPromoCodes_MissingFile(t *testing.T) {
	r := newRegistry()

	_, err := LoadPromoCodes(context.Background(), r, filepath.Join(t.TempDir(), "absent.txt"), decimal.NewFromInt(10))
	assert.Error(t, err)
}

func TestLoadPromoCodes_SkipsAlreadyRegistered(t *testing.T) {
	r := newRegistry()
	ctx := context.Background()

	_, err := r.Register(ctx, "HAPPYHRS", decimal.NewFromInt(10))
	require.NoError(t, err)

	path := writePlainSeed(t, "HAPPYHRS\nFIFTYOFF\n")

	n, err := LoadPromoCodes(ctx, r, path, decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
