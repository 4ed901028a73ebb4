// Package codec reads and writes the pipe-delimited report file.
//
// Each line holds one report:
//
//	name|nationalId|description|latitude|longitude
//
// Coordinates are written with six decimal places. Text fields are not
// escaped, so a name or description containing '|' produces a line that
// cannot be read back; decoding stops at that line.
package codec

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/couchcryptid/disaster-report-registry/internal/domain"
)

const (
	separator   = "|"
	fieldCount  = 5
	maxLineSize = 64 * 1024
)

// LineError reports the first line that could not be decoded. Reports on the
// lines before it were decoded successfully.
type LineError struct {
	Line   int // 1-based
	Reason string
	Err    error
}

func (e *LineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("line %d: %s: %v", e.Line, e.Reason, e.Err)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Encode writes reports to w, one line each, in the given order.
func Encode(w io.Writer, reports []domain.Report) error {
	bw := bufio.NewWriter(w)
	for i := range reports {
		if _, err := bw.WriteString(formatLine(reports[i])); err != nil {
			return fmt.Errorf("write report %d: %w", i, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush reports: %w", err)
	}
	return nil
}

func formatLine(r domain.Report) string {
	return fmt.Sprintf("%s|%s|%s|%.6f|%.6f\n", r.Name, r.NationalID, r.Description, r.Latitude, r.Longitude)
}

// Decode reads reports from r until EOF or the first malformed line.
//
// On a malformed line it returns the reports decoded so far together with a
// *LineError; later lines are not read. A line longer than any valid report can
// be is malformed too. Read failures from r are wrapped and returned with the
// partial result as well.
func Decode(r io.Reader) ([]domain.Report, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)

	var reports []domain.Report
	line := 0
	for sc.Scan() {
		line++
		rep, err := parseLine(strings.TrimSuffix(sc.Text(), "\r"))
		if err != nil {
			var lineErr *LineError
			if errors.As(err, &lineErr) {
				lineErr.Line = line
			}
			return reports, err
		}
		reports = append(reports, rep)
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return reports, &LineError{Line: line + 1, Reason: "line too long", Err: err}
		}
		return reports, fmt.Errorf("read line %d: %w", line+1, err)
	}
	return reports, nil
}

func parseLine(text string) (domain.Report, error) {
	fields := strings.Split(text, separator)
	if len(fields) != fieldCount {
		return domain.Report{}, &LineError{Reason: fmt.Sprintf("expected %d fields, got %d", fieldCount, len(fields))}
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(fields[3]), 64)
	if err != nil {
		return domain.Report{}, &LineError{Reason: "bad latitude", Err: err}
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(fields[4]), 64)
	if err != nil {
		return domain.Report{}, &LineError{Reason: "bad longitude", Err: err}
	}

	rep, err := domain.NewReport(fields[0], fields[1], fields[2], lat, lon)
	if err != nil {
		return domain.Report{}, &LineError{Reason: "invalid report", Err: err}
	}
	return rep, nil
}
