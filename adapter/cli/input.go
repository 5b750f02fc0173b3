package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/domain"
)

// taskFile is the object form of a tasks file. A bare JSON array of tasks
// is accepted too.
type taskFile struct {
	Tasks    []domain.Task `json:"tasks"`
	Strategy string        `json:"strategy"`
}

// readTasks loads tasks from path, or from stdin when path is "-".
func readTasks(stdin io.Reader, path string) (taskFile, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return taskFile{}, fmt.Errorf("failed to read tasks: %w", err)
	}
	return parseTasks(data)
}

func parseTasks(data []byte) (taskFile, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return taskFile{}, errors.New("tasks input is empty")
	}

	var file taskFile
	if data[0] == '[' {
		if err := json.Unmarshal(data, &file.Tasks); err != nil {
			return taskFile{}, fmt.Errorf("invalid tasks JSON: %w", err)
		}
		return file, nil
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return taskFile{}, fmt.Errorf("invalid tasks JSON: %w", err)
	}
	return file, nil
}

// parseToday reads a --today value. Empty means the scorer's clock.
func parseToday(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := domain.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --today format, use YYYY-MM-DD: %w", err)
	}
	return t, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
