package catalog

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// Header is the fixed first line of every catalog file.
const Header = "Index\tTitle\tID\tLanguage"

var (
	// ErrCorrupt indicates the catalog cannot be trusted to yield a next index.
	ErrCorrupt = errors.New("catalog corrupt")
	// ErrAppend indicates a row could not be durably appended.
	ErrAppend = errors.New("catalog append failed")
)

// Entry is one catalog row.
type Entry struct {
	Index    int
	Title    string
	SourceID string
	Language string
}

func (e Entry) row() string {
	return strconv.Itoa(e.Index) + "\t" + e.Title + "\t" + e.SourceID + "\t" + e.Language + "\n"
}

// Store reads and appends rows of a catalog file.
type Store struct {
	path string
}

// Open returns a Store for the catalog at path. The file is not touched until
// Initialize or Append is called.
func Open(path string) *Store {
	return &Store{path: path}
}

// Path reports the catalog file location.
func (s *Store) Path() string {
	return s.path
}

// Initialize creates the catalog with its header when it does not exist and
// returns the next available index derived from the last data row.
func (s *Store) Initialize() (int, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, s.create()
		}
		return 0, fmt.Errorf("read catalog %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return 0, s.create()
	}

	lines, err := splitLines(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrCorrupt, s.path, err)
	}
	if len(lines) == 0 || lines[0] != Header {
		return 0, fmt.Errorf("%w: %s: missing header row", ErrCorrupt, s.path)
	}
	if !bytes.HasSuffix(data, []byte("\n")) {
		if err := s.terminate(lines); err != nil {
			return 0, err
		}
	}
	if len(lines) == 1 {
		return 0, nil
	}

	last := lines[len(lines)-1]
	field, _, _ := strings.Cut(last, "\t")
	if !isDigits(field) {
		return 0, fmt.Errorf("%w: %s: last row index %q is not a non-negative integer", ErrCorrupt, s.path, field)
	}
	index, err := strconv.Atoi(field)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: last row index %q: %w", ErrCorrupt, s.path, field, err)
	}
	return index + 1, nil
}

func (s *Store) create() error {
	if err := os.WriteFile(s.path, []byte(Header+"\n"), 0o644); err != nil {
		return fmt.Errorf("create catalog %s: %w", s.path, err)
	}
	return nil
}

// terminate closes an unterminated final line so the next append starts on a
// fresh line. A final data row that does not parse is treated as a torn write.
func (s *Store) terminate(lines []string) error {
	if len(lines) > 1 {
		last := lines[len(lines)-1]
		if _, err := parseRow(last); err != nil {
			return fmt.Errorf("%w: %s: unterminated last row %q: %w", ErrCorrupt, s.path, last, err)
		}
	}
	file, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return fmt.Errorf("terminate catalog %s: %w", s.path, err)
	}
	defer file.Close()
	if _, err := file.WriteString("\n"); err != nil {
		return fmt.Errorf("terminate catalog %s: %w", s.path, err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("terminate catalog %s: %w", s.path, err)
	}
	return file.Close()
}

// Append writes one row for entry. The catalog must already exist; a missing
// or unwritable file is reported as ErrAppend.
func (s *Store) Append(entry Entry) error {
	file, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", ErrAppend, s.path, err)
	}
	defer file.Close()

	if _, err := file.WriteString(entry.row()); err != nil {
		return fmt.Errorf("%w: write index %d: %w", ErrAppend, entry.Index, err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("%w: sync index %d: %w", ErrAppend, entry.Index, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrAppend, s.path, err)
	}
	return nil
}

// Entries returns every data row in file order.
func (s *Store) Entries() ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", s.path, err)
	}
	lines, err := splitLines(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, s.path, err)
	}
	if len(lines) == 0 {
		return nil, nil
	}
	if lines[0] != Header {
		return nil, fmt.Errorf("%w: %s: missing header row", ErrCorrupt, s.path)
	}

	entries := make([]Entry, 0, len(lines)-1)
	for i, line := range lines[1:] {
		entry, err := parseRow(line)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %w", ErrCorrupt, s.path, i+2, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseRow(line string) (Entry, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 4 {
		return Entry{}, fmt.Errorf("expected 4 fields, got %d", len(fields))
	}
	if !isDigits(fields[0]) {
		return Entry{}, fmt.Errorf("index %q is not a non-negative integer", fields[0])
	}
	index, err := strconv.Atoi(fields[0])
	if err != nil {
		return Entry{}, fmt.Errorf("index %q: %w", fields[0], err)
	}
	return Entry{Index: index, Title: fields[1], SourceID: fields[2], Language: fields[3]}, nil
}

// splitLines returns the non-empty lines of data with trailing CRs removed.
// Blank lines never carry rows, so they are dropped rather than treated as the
// last row.
func splitLines(data []byte) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
