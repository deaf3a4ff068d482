// Command code-seed validates bulk promotional code dumps offline and writes
// the usable codes to a seed file the API server can load at startup.
//
// Marketing code dumps arrive as large gzipped text files, one candidate code
// per line, with plenty of noise. A code is considered valid when it appears
// in at least two of the input files. The tool streams every file twice: pass
// one builds a bloom filter per file, pass two re-reads each file and keeps
// codes that another file's filter also contains.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"
)

const (
	bloomCapacity = 50_000_000
	bloomFPR      = 0.001
	minCodeLen    = 8
	maxCodeLen    = 10
)

func main() {
	var (
		dataDir  string
		numFiles int
		outPath  string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing codebaseN.gz files")
	flag.IntVar(&numFiles, "files", 3, "number of codebaseN.gz files to read")
	flag.StringVar(&outPath, "out", "promo-codes.txt", "output seed file (one code per line)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, numFiles, outPath); err != nil {
		slog.Error("code seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("code seed completed successfully")
}

func run(ctx context.Context, dataDir string, numFiles int, outPath string) error {
	files := make([]string, numFiles)
	for i := range numFiles {
		files[i] = filepath.Join(dataDir, fmt.Sprintf("codebase%d.gz", i+1))
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return errors.Wrapf(err, "check file %s", f)
		}
	}

	// Pass 1: one bloom filter per file, built concurrently.
	slog.Info("pass 1: building bloom filters", slog.Int("files", numFiles))

	filters, err := buildBloomFilters(ctx, files)
	if err != nil {
		return errors.Wrap(err, "build bloom filters")
	}

	// Pass 2: keep codes that some other file's filter also contains.
	slog.Info("pass 2: finding codes present in 2+ files")

	valid, err := findValidCodes(ctx, files, filters)
	if err != nil {
		return errors.Wrap(err, "find valid codes")
	}

	slog.Info("valid codes found", slog.Int("count", len(valid)))

	return writeSeedFile(outPath, valid)
}

func buildBloomFilters(ctx context.Context, files []string) ([]*bloom.BloomFilter, error) {
	filters := make([]*bloom.BloomFilter, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range files {
		g.Go(func() error {
			filter := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
			var count uint64

			err := streamGzFile(ctx, path, func(code string) {
				filter.AddString(code)
				count++
			})
			if err != nil {
				return errors.Wrapf(err, "stream %s", path)
			}

			slog.Info("filter built", slog.String("file", path), slog.Uint64("codes", count))
			filters[i] = filter
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return filters, nil
}

func findValidCodes(ctx context.Context, files []string, filters []*bloom.BloomFilter) (map[string]struct{}, error) {
	valid := make(map[string]struct{})

	for i, path := range files {
		err := streamGzFile(ctx, path, func(code string) {
			if _, ok := valid[code]; ok {
				return
			}
			for j, filter := range filters {
				if j == i {
					continue
				}
				if filter.TestString(code) {
					valid[code] = struct{}{}
					return
				}
			}
		})
		if err != nil {
			return nil, errors.Wrapf(err, "stream %s", path)
		}
	}

	return valid, nil
}

// streamGzFile reads a gzipped text file line by line, calling fn for every
// well-formed candidate code. It stops early when ctx is cancelled.
func streamGzFile(ctx context.Context, path string, fn func(code string)) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open")
	}
	defer func() { _ = f.Close() }()

	zr, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrap(err, "open gzip stream")
	}
	defer func() { _ = zr.Close() }()

	sc := bufio.NewScanner(zr)
	var line uint64
	for sc.Scan() {
		line++
		// Check cancellation periodically, not per line.
		if line%1_000_000 == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		code := strings.TrimSpace(sc.Text())
		if len(code) < minCodeLen || len(code) > maxCodeLen {
			continue
		}
		fn(code)
	}
	return errors.Wrap(sc.Err(), "scan")
}

func writeSeedFile(path string, codes map[string]struct{}) error {
	sorted := make([]string, 0, len(codes))
	for code := range codes {
		sorted = append(sorted, code)
	}
	sort.Strings(sorted)

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create seed file")
	}
	defer func() { _ = f.Close() }()

	w := bufio.NewWriter(f)
	for _, code := range sorted {
		if _, err := fmt.Fprintln(w, code); err != nil {
			return errors.Wrap(err, "write seed file")
		}
	}
	return errors.Wrap(w.Flush(), "flush seed file")
}
