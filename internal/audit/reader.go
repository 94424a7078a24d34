package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/gm-panel-api/internal/models"
)

// Reader reconstructs audit entries from the daily log files. Every read
// re-scans disk; the viewer's query volume does not justify caching.
type Reader struct {
	dir    string
	logger *zap.Logger
}

// NewReader constructs a Reader over the given log directory.
func NewReader(dir string, logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir == "" {
		dir = "./audit-logs"
	}
	return &Reader{dir: dir, logger: logger}
}

// Read returns all entries within the inclusive date range, newest first.
// A missing directory yields an empty result; a malformed line or an
// unreadable file is skipped with a warning and never aborts the read.
func (r *Reader) Read(filter models.AuditFilter) ([]models.AuditEntry, error) {
	if err := validateDate(filter.StartDate); err != nil {
		return nil, err
	}
	if err := validateDate(filter.EndDate); err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.AuditEntry{}, nil
		}
		return nil, fmt.Errorf("read audit directory: %w", err)
	}

	entries := make([]models.AuditEntry, 0)
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		date, ok := fileDate(de.Name())
		if !ok {
			continue
		}
		if filter.StartDate != "" && date < filter.StartDate {
			continue
		}
		if filter.EndDate != "" && date > filter.EndDate {
			continue
		}
		entries = append(entries, r.readFile(filepath.Join(r.dir, de.Name()))...)
	}

	// Timestamps share a fixed-width layout, so string order is time order.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp > entries[j].Timestamp
	})

	return entries, nil
}

func (r *Reader) readFile(path string) []models.AuditEntry {
	f, err := os.Open(path)
	if err != nil {
		r.logger.Warn("skipping unreadable audit file", zap.String("file", path), zap.Error(err))
		return nil
	}
	defer f.Close() //nolint:errcheck

	entries := make([]models.AuditEntry, 0)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry models.AuditEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			r.logger.Warn("skipping malformed audit line",
				zap.String("file", path), zap.Int("line", lineNo), zap.Error(err))
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		r.logger.Warn("audit file scan aborted", zap.String("file", path), zap.Error(err))
	}
	return entries
}

// fileDate extracts the embedded YYYY-MM-DD from a daily log filename.
func fileDate(name string) (string, bool) {
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
		return "", false
	}
	date := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
	if _, err := time.Parse(fileDateLayout, date); err != nil {
		return "", false
	}
	return date, true
}

func validateDate(date string) error {
	if date == "" {
		return nil
	}
	if _, err := time.Parse(fileDateLayout, date); err != nil {
		return fmt.Errorf("invalid date %q, want YYYY-MM-DD", date)
	}
	return nil
}
