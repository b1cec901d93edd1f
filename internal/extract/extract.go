package extract

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Scan reads r line by line and calls emit for every completed row.
// Lines may be of any length. A partial row left at end of input is discarded.
func Scan(r io.Reader, emit func(Row) error) error {
	var acc Accumulator

	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read input: %w", err)
		}
		if line != "" {
			acc.Feed(strings.TrimRight(line, "\r\n"))
			if acc.Complete() {
				if err := emit(acc.Row()); err != nil {
					return err
				}
				acc.Reset()
			}
		}
		if err != nil {
			break
		}
	}

	if acc.ip != "" || acc.bytes != "" || acc.packets != "" || acc.rtt != "" {
		slog.Debug("Discarding incomplete trailing record", "row", acc.Row())
	}
	return nil
}

// WriteCSV converts captured ping output from r into CSV on w, header first.
// It returns the number of data rows written.
func WriteCSV(r io.Reader, w io.Writer) (int, error) {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(Header); err != nil {
		return 0, err
	}

	rows := 0
	err := Scan(r, func(row Row) error {
		rows++
		return cw.Write(row.Record())
	})
	if err != nil {
		return rows, err
	}

	cw.Flush()
	return rows, cw.Error()
}

// CSVPath replaces the extension of path with .csv, keeping the directory.
// Leading dots of the base name do not start an extension.
func CSVPath(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(strings.TrimLeft(base, "."))
	return strings.TrimSuffix(path, ext) + ".csv"
}

// ExtractFile parses inputPath and writes its sibling CSV file.
// It returns the CSV path and the number of data rows.
func ExtractFile(inputPath string) (string, int, error) {
	in, err := os.Open(inputPath)
	if err != nil {
		return "", 0, fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	outputPath := CSVPath(inputPath)
	if filepath.Clean(outputPath) == filepath.Clean(inputPath) {
		return "", 0, fmt.Errorf("output %s would overwrite its input", outputPath)
	}
	out, err := os.Create(outputPath)
	if err != nil {
		return "", 0, fmt.Errorf("create output: %w", err)
	}

	rows, err := WriteCSV(in, out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return outputPath, rows, fmt.Errorf("write %s: %w", outputPath, err)
	}

	slog.Debug("Extracted ping results", "input", inputPath, "output", outputPath, "rows", rows)
	return outputPath, rows, nil
}
