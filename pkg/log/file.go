package log

import (
	"encoding/json"
	"fmt"
	"os"
)

// FileSink appends events as JSON lines, one file per run.
type FileSink struct {
	file *os.File
}

// NewFileSink creates or truncates the log file at path.
func NewFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	return &FileSink{file: f}, nil
}

func (fs *FileSink) Write(event *Event) error {
	entry := map[string]any{
		"level":   event.Level.String(),
		"time":    event.Timestamp,
		"message": event.Message,
	}
	for k, v := range event.Fields {
		entry[k] = v
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling log event: %w", err)
	}
	if _, err := fs.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing log event: %w", err)
	}
	return nil
}

func (fs *FileSink) Close() error {
	if fs.file != nil {
		return fs.file.Close()
	}
	return nil
}
