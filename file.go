package datastage

import (
	"compress/bzip2"
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
	"github.com/xuri/excelize/v2"
)

// fileKind represents the base format of an input file, independent of
// compression.
type fileKind int

const (
	kindUnsupported fileKind = iota
	kindCSV
	kindTSV
	kindParquet
	kindXLSX
)

// compression represents the compression wrapper around an input file.
type compression int

const (
	compressionNone compression = iota
	compressionGZ
	compressionBZ2
	compressionXZ
	compressionZSTD
)

// File extensions
const (
	extCSV     = ".csv"
	extTSV     = ".tsv"
	extParquet = ".parquet"
	extXLSX    = ".xlsx"
	extGZ      = ".gz"
	extBZ2     = ".bz2"
	extXZ      = ".xz"
	extZSTD    = ".zst"
)

// readerFunc returns the DuckDB table function that ingests this kind of
// file, or "" when the engine cannot read it directly.
func (k fileKind) readerFunc() string {
	switch k {
	case kindCSV, kindTSV:
		return "read_csv_auto"
	case kindParquet:
		return "read_parquet"
	default:
		return ""
	}
}

// extension returns the canonical extension for the kind.
func (k fileKind) extension() string {
	switch k {
	case kindCSV:
		return extCSV
	case kindTSV:
		return extTSV
	case kindParquet:
		return extParquet
	case kindXLSX:
		return extXLSX
	default:
		return ""
	}
}

// extension returns the compression suffix, or "" for none.
func (c compression) extension() string {
	switch c {
	case compressionGZ:
		return extGZ
	case compressionBZ2:
		return extBZ2
	case compressionXZ:
		return extXZ
	case compressionZSTD:
		return extZSTD
	default:
		return ""
	}
}

// detectFormat determines base kind and compression from the file name.
func detectFormat(path string) (fileKind, compression) {
	lower := strings.ToLower(path)

	comp := compressionNone
	switch {
	case strings.HasSuffix(lower, extGZ):
		lower, comp = strings.TrimSuffix(lower, extGZ), compressionGZ
	case strings.HasSuffix(lower, extBZ2):
		lower, comp = strings.TrimSuffix(lower, extBZ2), compressionBZ2
	case strings.HasSuffix(lower, extXZ):
		lower, comp = strings.TrimSuffix(lower, extXZ), compressionXZ
	case strings.HasSuffix(lower, extZSTD):
		lower, comp = strings.TrimSuffix(lower, extZSTD), compressionZSTD
	}

	switch filepath.Ext(lower) {
	case extCSV:
		return kindCSV, comp
	case extTSV:
		return kindTSV, comp
	case extParquet:
		return kindParquet, comp
	case extXLSX:
		return kindXLSX, comp
	default:
		return kindUnsupported, comp
	}
}

// IsSupportedFile reports whether the file name carries an extension the
// loader can ingest: .csv, .tsv, .parquet, or .xlsx, optionally compressed
// with .gz, .bz2, .xz, or .zst.
func IsSupportedFile(fileName string) bool {
	kind, _ := detectFormat(fileName)
	return kind != kindUnsupported
}

// openDecompressed opens path and returns a reader of its uncompressed
// bytes plus a closer.
func openDecompressed(path string, comp compression) (io.Reader, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	var reader io.Reader = f
	closer := f.Close

	switch comp {
	case compressionGZ:
		gzReader, err := gzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, nil, err
		}
		reader = gzReader
		closer = func() error {
			_ = gzReader.Close()
			return f.Close()
		}
	case compressionBZ2:
		reader = bzip2.NewReader(f)
	case compressionXZ:
		xzReader, err := xz.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, nil, err
		}
		reader = xzReader
	case compressionZSTD:
		decoder, err := zstd.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, nil, err
		}
		reader = decoder.IOReadCloser()
		closer = func() error {
			decoder.Close()
			return f.Close()
		}
	}

	return reader, closer, nil
}

// stagedFile is an engine-readable rendition of an input file.
type stagedFile struct {
	// path is the file the engine should read
	path string
	// kind is the format at path, after any conversion
	kind fileKind
	// cleanup removes files staged during normalization; it is always
	// non-nil and safe to call once
	cleanup func()
}

// normalizeForEngine turns path into something DuckDB can ingest directly.
// Plain and gzip-compressed CSV/TSV pass through untouched (the engine
// sniffs gzip and delimiters itself). Other compressed variants are
// decompressed to a staged file, and XLSX input is converted to a staged
// CSV. The caller must invoke the returned cleanup.
func normalizeForEngine(path string) (*stagedFile, error) {
	kind, comp := detectFormat(path)
	noop := func() {}

	switch kind {
	case kindUnsupported:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))

	case kindXLSX:
		staged, err := convertXLSX(path, comp)
		if err != nil {
			return nil, err
		}
		return &stagedFile{path: staged, kind: kindCSV, cleanup: func() { _ = os.Remove(staged) }}, nil

	case kindCSV, kindTSV:
		if comp == compressionNone || comp == compressionGZ {
			return &stagedFile{path: path, kind: kind, cleanup: noop}, nil
		}
	case kindParquet:
		if comp == compressionNone {
			return &stagedFile{path: path, kind: kind, cleanup: noop}, nil
		}
	}

	staged, err := decompressToTemp(path, kind, comp)
	if err != nil {
		return nil, err
	}
	return &stagedFile{path: staged, kind: kind, cleanup: func() { _ = os.Remove(staged) }}, nil
}

// decompressToTemp writes the uncompressed bytes of path to a temporary
// file carrying the kind's canonical extension.
func decompressToTemp(path string, kind fileKind, comp compression) (string, error) {
	reader, closer, err := openDecompressed(path, comp)
	if err != nil {
		return "", fmt.Errorf("datastage: open %s: %w", path, err)
	}
	defer func() { _ = closer() }()

	tempFile, err := os.CreateTemp("", "datastage-*"+kind.extension())
	if err != nil {
		return "", fmt.Errorf("datastage: create staging file: %w", err)
	}

	if _, err := io.Copy(tempFile, reader); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempFile.Name())
		return "", fmt.Errorf("datastage: decompress %s: %w", path, err)
	}
	if err := tempFile.Close(); err != nil {
		_ = os.Remove(tempFile.Name())
		return "", fmt.Errorf("datastage: close staging file: %w", err)
	}
	return tempFile.Name(), nil
}

// convertXLSX writes the first sheet of an XLSX workbook (possibly
// compressed) to a temporary CSV file.
func convertXLSX(path string, comp compression) (string, error) {
	var workbook *excelize.File
	if comp == compressionNone {
		var err error
		workbook, err = excelize.OpenFile(path)
		if err != nil {
			return "", fmt.Errorf("datastage: open workbook %s: %w", path, err)
		}
	} else {
		reader, closer, err := openDecompressed(path, comp)
		if err != nil {
			return "", fmt.Errorf("datastage: open %s: %w", path, err)
		}
		workbook, err = excelize.OpenReader(reader)
		_ = closer()
		if err != nil {
			return "", fmt.Errorf("datastage: open workbook %s: %w", path, err)
		}
	}
	defer func() { _ = workbook.Close() }()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("datastage: no sheets in workbook %s", path)
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return "", fmt.Errorf("datastage: read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("datastage: sheet %s is empty in workbook %s", sheets[0], path)
	}

	tempFile, err := os.CreateTemp("", "datastage-*"+extCSV)
	if err != nil {
		return "", fmt.Errorf("datastage: create staging file: %w", err)
	}

	writer := csv.NewWriter(tempFile)
	width := len(rows[0])
	for _, row := range rows {
		// Pad short rows so every record matches the header width.
		padded := make([]string, width)
		copy(padded, row)
		if err := writer.Write(padded); err != nil {
			_ = tempFile.Close()
			_ = os.Remove(tempFile.Name())
			return "", fmt.Errorf("datastage: write staged csv: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempFile.Name())
		return "", fmt.Errorf("datastage: write staged csv: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		_ = os.Remove(tempFile.Name())
		return "", fmt.Errorf("datastage: close staging file: %w", err)
	}
	return tempFile.Name(), nil
}
