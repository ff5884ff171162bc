// Package csvstore persists users, history and the rollover marker as flat
// files in a single directory: users.csv, history.csv and last_rollover.txt.
//
// Columns are matched by header name, so files written by older versions
// that lack a score column still load; the missing values read as 0.
package csvstore

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ecoscore-go/internal/models"
	"ecoscore-go/internal/store"

	"go.uber.org/zap"
)

const (
	UsersFile   = "users.csv"
	HistoryFile = "history.csv"
	MarkerFile  = "last_rollover.txt"

	initialMarkerAge = 8
)

var (
	_ store.Store = (*Store)(nil)

	userHeader    = []string{"username", "password", "recycling", "water_energy", "habits", "emissions", "total"}
	historyHeader = []string{"username", "snapshot_date", "recycling", "water_energy", "habits", "emissions", "total"}
)

type Store struct {
	dir string
}

// New opens (creating if needed) a CSV store rooted at dir. On first use the
// marker is seeded eight days before now.
func New(dir string, now time.Time) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("csv data directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create data directory: %w", err)
	}

	s := &Store{dir: dir}

	if err := s.ensureFile(UsersFile, userHeader); err != nil {
		return nil, err
	}
	if err := s.ensureFile(HistoryFile, historyHeader); err != nil {
		return nil, err
	}

	markerPath := s.path(MarkerFile)
	if _, err := os.Stat(markerPath); errors.Is(err, os.ErrNotExist) {
		seed := models.DateOf(now).AddDays(-initialMarkerAge)
		if err := writeFileAtomic(markerPath, []byte(seed.String())); err != nil {
			return nil, fmt.Errorf("unable to seed rollover marker: %w", err)
		}
	}

	zap.L().Info("CSV store initialized", zap.String("dir", dir))
	return s, nil
}

func (s *Store) Close() {}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *Store) ensureFile(name string, header []string) error {
	p := s.path(name)
	if _, err := os.Stat(p); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("unable to stat %s: %w", name, err)
	}
	if err := writeCSV(p, header, nil); err != nil {
		return fmt.Errorf("unable to create %s: %w", name, err)
	}
	return nil
}

func (s *Store) LoadUsers(_ context.Context) ([]models.User, error) {
	rows, err := readCSV(s.path(UsersFile))
	if err != nil {
		return nil, fmt.Errorf("unable to read users: %w", err)
	}

	users := make([]models.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, models.User{
			Username: row.text("username"),
			Password: row.text("password"),
			Scores:   row.scores(),
		})
	}
	return users, nil
}

func (s *Store) SaveUsers(_ context.Context, users []models.User) error {
	records := make([][]string, 0, len(users))
	for _, u := range users {
		records = append(records, append([]string{u.Username, u.Password}, scoreCells(u.Scores)...))
	}
	if err := writeCSV(s.path(UsersFile), userHeader, records); err != nil {
		zap.L().Error("Failed to save users", zap.Error(err))
		return fmt.Errorf("unable to save users: %w", err)
	}
	return nil
}

func (s *Store) LoadHistory(_ context.Context) ([]models.Snapshot, error) {
	rows, err := readCSV(s.path(HistoryFile))
	if err != nil {
		return nil, fmt.Errorf("unable to read history: %w", err)
	}

	snapshots := make([]models.Snapshot, 0, len(rows))
	for _, row := range rows {
		var date models.Date
		if raw := row.text("snapshot_date"); raw != "" {
			parsed, err := models.ParseDate(raw)
			if err != nil {
				zap.L().Warn("Unparseable snapshot date", zap.Int("line", row.line), zap.String("value", raw))
			} else {
				date = parsed
			}
		}
		snapshots = append(snapshots, models.Snapshot{
			Username:     row.text("username"),
			SnapshotDate: date,
			Scores:       row.scores(),
		})
	}
	return snapshots, nil
}

// AppendHistory adds snapshots after the existing rows of history.csv. Rows
// already in the file are carried over byte for byte. A header from an older
// version is extended with any missing score columns; older rows then read
// those columns as 0.
func (s *Store) AppendHistory(_ context.Context, snapshots []models.Snapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	p := s.path(HistoryFile)
	existing, err := os.ReadFile(p)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("unable to read history: %w", err)
	}

	content, header, err := extendHeader(existing, historyHeader)
	if err != nil {
		return fmt.Errorf("unable to append history: %w", err)
	}

	var b bytes.Buffer
	b.Write(content)
	w := csv.NewWriter(&b)
	for _, snap := range snapshots {
		if err := w.Write(historyRecord(header, snap)); err != nil {
			return fmt.Errorf("unable to append history: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("unable to append history: %w", err)
	}

	if err := writeFileAtomic(p, b.Bytes()); err != nil {
		zap.L().Error("Failed to append history", zap.Error(err))
		return fmt.Errorf("unable to append history: %w", err)
	}

	zap.L().Info("History appended", zap.Int("count", len(snapshots)))
	return nil
}

// historyRecord lays snap out in the column order of header
func historyRecord(header []string, snap models.Snapshot) []string {
	values := map[string]string{
		"username":      snap.Username,
		"snapshot_date": snap.SnapshotDate.String(),
	}
	for i, cell := range scoreCells(snap.Scores) {
		values[historyHeader[2+i]] = cell
	}

	record := make([]string, len(header))
	for i, name := range header {
		record[i] = values[columnName(name)]
	}
	return record
}

func (s *Store) LoadMarker(_ context.Context) (models.Date, error) {
	data, err := os.ReadFile(s.path(MarkerFile))
	if errors.Is(err, os.ErrNotExist) {
		return models.Date{}, store.ErrNoMarker
	}
	if err != nil {
		return models.Date{}, fmt.Errorf("failed to read rollover marker: %w", err)
	}

	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return models.Date{}, store.ErrNoMarker
	}
	date, err := models.ParseDate(raw)
	if err != nil {
		zap.L().Warn("Ignoring unparseable rollover marker", zap.String("value", raw), zap.Error(err))
		return models.Date{}, store.ErrNoMarker
	}
	return date, nil
}

func (s *Store) SaveMarker(_ context.Context, date models.Date) error {
	if err := writeFileAtomic(s.path(MarkerFile), []byte(date.String())); err != nil {
		zap.L().Error("Failed to save rollover marker", zap.String("date", date.String()), zap.Error(err))
		return fmt.Errorf("failed to save rollover marker: %w", err)
	}
	zap.L().Info("Rollover marker saved", zap.String("date", date.String()))
	return nil
}

// ---------- file helpers ----------

type csvRow struct {
	line   int
	cols   map[string]int
	record []string
}

func (r csvRow) text(column string) string {
	idx, ok := r.cols[column]
	if !ok || idx >= len(r.record) {
		return ""
	}
	return r.record[idx]
}

func (r csvRow) points(column string) models.Points {
	raw := r.text(column)
	p, ok := models.ParsePoints(raw)
	if !ok && raw != "" {
		zap.L().Warn("Coercing malformed score to zero",
			zap.Int("line", r.line),
			zap.String("column", column),
			zap.String("value", raw))
	}
	return p
}

func (r csvRow) scores() models.Scores {
	return models.Scores{
		Recycling:   r.points("recycling"),
		WaterEnergy: r.points("water_energy"),
		Habits:      r.points("habits"),
		Emissions:   r.points("emissions"),
		Total:       r.points("total"),
	}
}

func scoreCells(s models.Scores) []string {
	return []string{
		fmt.Sprint(int(s.Recycling)),
		fmt.Sprint(int(s.WaterEnergy)),
		fmt.Sprint(int(s.Habits)),
		fmt.Sprint(int(s.Emissions)),
		fmt.Sprint(int(s.Total)),
	}
}

// readCSV returns every data row of path. A row with a stray quote confined
// to its own line is re-read leniently instead of being dropped, since a
// dropped user row would be lost on the next save. Errors that span lines
// fail the read.
func readCSV(path string) ([]csvRow, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	name := filepath.Base(path)
	lines := physicalLines(data)
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	next := func() ([]string, int, error) {
		record, err := reader.Read()
		if err == nil {
			line, _ := reader.FieldPos(0)
			return record, line, nil
		}
		var parseErr *csv.ParseError
		if !errors.As(err, &parseErr) || parseErr.StartLine != parseErr.Line {
			return nil, 0, err
		}
		record, err = lenientLine(lines, parseErr.Line)
		if err != nil {
			return nil, 0, err
		}
		zap.L().Warn("Recovered malformed csv line",
			zap.String("file", name),
			zap.Int("line", parseErr.Line),
			zap.NamedError("parse_error", parseErr))
		return record, parseErr.Line, nil
	}

	header, _, err := next()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("invalid header in %s: %w", name, err)
	}

	cols := make(map[string]int, len(header))
	for i, col := range header {
		cols[columnName(col)] = i
	}

	var rows []csvRow
	for {
		record, line, err := next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to read %s: %w", name, err)
		}
		rows = append(rows, csvRow{line: line, cols: cols, record: record})
	}
	return rows, nil
}

// physicalLines splits data on newlines, dropping carriage returns
func physicalLines(data []byte) []string {
	raw := strings.Split(string(data), "\n")
	for i, l := range raw {
		raw[i] = strings.TrimSuffix(l, "\r")
	}
	return raw
}

// lenientLine parses the 1-based physical line n on its own, accepting
// stray quotes
func lenientLine(lines []string, n int) ([]string, error) {
	if n < 1 || n > len(lines) {
		return nil, fmt.Errorf("line %d out of range", n)
	}
	return newLineReader(lines[n-1]).Read()
}

// newLineReader reads a single physical line with ragged rows and stray
// quotes allowed
func newLineReader(line string) *csv.Reader {
	reader := csv.NewReader(strings.NewReader(line))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader
}

func columnName(raw string) string {
	return strings.TrimSpace(strings.TrimPrefix(raw, "\ufeff"))
}

// extendHeader returns the file content to append after and its column
// order. Only the header line is rewritten, and only when it lacks one of
// the wanted columns; every data row is returned unchanged.
func extendHeader(data []byte, want []string) ([]byte, []string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		line, err := csvLine(want)
		return line, want, err
	}

	headerLine, rest := data, []byte(nil)
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		headerLine, rest = data[:i+1], data[i+1:]
	}

	header, err := newLineReader(strings.TrimRight(string(headerLine), "\r\n")).Read()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid header: %w", err)
	}

	present := make(map[string]bool, len(header))
	for _, name := range header {
		present[columnName(name)] = true
	}
	extended := append([]string(nil), header...)
	for _, name := range want {
		if !present[name] {
			extended = append(extended, name)
		}
	}

	if len(extended) != len(header) {
		if headerLine, err = csvLine(extended); err != nil {
			return nil, nil, err
		}
	} else if !bytes.HasSuffix(headerLine, []byte("\n")) {
		headerLine = append(append([]byte(nil), headerLine...), '\n')
	}
	if len(rest) > 0 && !bytes.HasSuffix(rest, []byte("\n")) {
		rest = append(append([]byte(nil), rest...), '\n')
	}

	content := make([]byte, 0, len(headerLine)+len(rest))
	content = append(content, headerLine...)
	content = append(content, rest...)
	return content, extended, nil
}

func csvLine(record []string) ([]byte, error) {
	var b bytes.Buffer
	w := csv.NewWriter(&b)
	if err := w.Write(record); err != nil {
		return nil, err
	}
	w.Flush()
	return b.Bytes(), w.Error()
}

func writeCSV(path string, header []string, records [][]string) error {
	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(records); err != nil {
		return err
	}
	return writeFileAtomic(path, []byte(b.String()))
}

// writeFileAtomic replaces path via a synced temp file and rename
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return err
	}
	return nil
}
