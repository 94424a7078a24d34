package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/gm-panel-api/internal/models"
	"github.com/noah-isme/gm-panel-api/pkg/config"
)

// timestampLayout is fixed-width UTC millisecond ISO-8601 so that string
// comparison of timestamps is chronological.
const timestampLayout = "2006-01-02T15:04:05.000Z"

const (
	filePrefix     = "audit-"
	fileSuffix     = ".log"
	fileDateLayout = "2006-01-02"
)

// SinkMetrics counts recorder activity. Implementations must be safe for
// concurrent use.
type SinkMetrics interface {
	IncAuditRecorded(persisted bool)
}

// Options carries the optional fields of an audit record.
type Options struct {
	Target    *models.AuditTarget
	Changes   map[string]models.FieldChange
	Metadata  map[string]interface{}
	IP        string
	UserAgent string
}

// Recorder appends audit entries to daily newline-delimited JSON files and
// mirrors every entry to the operational log. Recording is best-effort: no
// failure ever propagates to the action being described.
type Recorder struct {
	dir     string
	enabled bool
	logger  *zap.Logger
	metrics SinkMetrics

	mu sync.Mutex
}

// NewRecorder constructs a Recorder. A nil metrics sink is allowed.
func NewRecorder(cfg config.AuditConfig, logger *zap.Logger, metrics SinkMetrics) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	dir := cfg.Dir
	if dir == "" {
		dir = "./audit-logs"
	}
	return &Recorder{dir: dir, enabled: cfg.Enabled, logger: logger, metrics: metrics}
}

// Record writes one audit entry. It never returns an error: persistence
// failures are logged and swallowed, and when the file sink is disabled by
// configuration the entry is only mirrored to the operational log.
func (r *Recorder) Record(admin, action string, opts Options) {
	if admin == "" {
		admin = models.AdminUnknown
	}
	ip := opts.IP
	if ip == "" {
		ip = models.AdminUnknown
	}

	entry := models.AuditEntry{
		Timestamp: time.Now().UTC().Format(timestampLayout),
		Action:    action,
		Admin:     admin,
		Target:    opts.Target,
		Changes:   opts.Changes,
		Metadata:  opts.Metadata,
		IP:        ip,
		UserAgent: opts.UserAgent,
	}

	r.mirror(entry)

	if !r.enabled {
		if r.metrics != nil {
			r.metrics.IncAuditRecorded(false)
		}
		return
	}

	r.mu.Lock()
	err := r.append(entry)
	r.mu.Unlock()
	if err != nil {
		r.logger.Warn("audit append failed", zap.String("action", action), zap.Error(err))
		if r.metrics != nil {
			r.metrics.IncAuditRecorded(false)
		}
		return
	}
	if r.metrics != nil {
		r.metrics.IncAuditRecorded(true)
	}
}

// mirror emits the live-tailing line. This sink is independent of the
// persistence flag and is not part of the durable contract.
func (r *Recorder) mirror(entry models.AuditEntry) {
	fields := []zap.Field{
		zap.String("action", entry.Action),
		zap.String("admin", entry.Admin),
		zap.String("ip", entry.IP),
	}
	if entry.Target != nil {
		fields = append(fields, zap.String("target", entry.Target.Type+"/"+entry.Target.ID))
	}
	if len(entry.Changes) > 0 {
		fields = append(fields, zap.Int("changed_fields", len(entry.Changes)))
	}
	r.logger.Info("audit", fields...)
}

func (r *Recorder) append(entry models.AuditEntry) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create audit directory: %w", err)
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode audit entry: %w", err)
	}

	// One file per UTC calendar day; O_APPEND keeps complete lines atomic
	// across writers sharing the directory.
	name := filePrefix + entry.Timestamp[:len(fileDateLayout)] + fileSuffix
	f, err := os.OpenFile(filepath.Join(r.dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open audit file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// Dir exposes the log directory (shared with the Reader).
func (r *Recorder) Dir() string {
	return r.dir
}
