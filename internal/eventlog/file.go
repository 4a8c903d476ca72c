package eventlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileSink appends entries to one JSON lines file per day.
type FileSink struct {
	dir string
	mu  sync.Mutex
}

// NewFileSink returns a sink writing into dir. The directory is created on
// first write.
func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

// Path returns the file the entry is written to.
func (s *FileSink) Path(e Entry) string {
	return filepath.Join(s.dir, "log_"+e.Timestamp.Format("2006-01-02")+".log")
}

// Write appends the entry to the file of its day.
func (s *FileSink) Write(e Entry) error {
	line, err := e.FormatFile()
	if err != nil {
		return fmt.Errorf("failed to encode log entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(s.Path(e), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("failed to write log file: %w", err)
	}

	return f.Close()
}
