package audit

import (
	"fmt"
	"os"
	"sync"

	"fxconvert/internal/domain/model"
)

// FileLog appends one line per conversion to a text file. The file is never
// read back.
type FileLog struct {
	path  string
	mutex sync.Mutex
}

func NewFileLog(path string) *FileLog {
	return &FileLog{path: path}
}

func (f *FileLog) Record(result model.ConversionResult) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open conversion log: %w", err)
	}

	if _, err := fmt.Fprintln(file, result.LogLine()); err != nil {
		file.Close()
		return fmt.Errorf("failed to write conversion log: %w", err)
	}

	return file.Close()
}

func (f *FileLog) Path() string {
	return f.path
}
