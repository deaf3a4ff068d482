package memstore

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"

	"github.com/xenking/uniblox-store/internal/domain/discount"
)

// LoadPromoCodes registers every code from a newline-delimited seed file
// (plain text or gzip-compressed, by extension) as an unused code at the
// given percentage. Blank lines and duplicates are skipped. It returns the
// number of codes registered.
//
// Seed files are produced offline by cmd/code-seed.
func LoadPromoCodes(ctx context.Context, reg discount.Registry, path string, percent decimal.Decimal) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrap(err, "open seed file")
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := pgzip.NewReader(f)
		if err != nil {
			return 0, errors.Wrap(err, "open gzip stream")
		}
		defer func() { _ = zr.Close() }()
		r = zr
	}

	registered := 0
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		code := strings.TrimSpace(sc.Text())
		if code == "" {
			continue
		}
		if _, err := reg.Register(ctx, code, percent); err != nil {
			if errors.Is(err, discount.ErrCodeExists) {
				continue
			}
			return registered, errors.Wrapf(err, "register code %q", code)
		}
		registered++
	}
	if err := sc.Err(); err != nil {
		return registered, errors.Wrap(err, "read seed file")
	}
	return registered, nil
}
