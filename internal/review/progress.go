package review

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Progress mirrors the on-disk progress artifact the coordinator maintains
// while a wave is running. Page paths move from in_progress to completed or
// failed as workers report back.
type Progress struct {
	Started    string   `json:"started"`
	TotalFiles int      `json:"total_files"`
	Completed  []string `json:"completed"`
	InProgress []string `json:"in_progress"`
	Failed     []string `json:"failed"`
}

// Counts condenses a progress snapshot for display.
type Counts struct {
	Total      int     `json:"total"`
	Completed  int     `json:"completed"`
	InProgress int     `json:"in_progress"`
	Failed     int     `json:"failed"`
	Pending    int     `json:"pending"`
	Percent    float64 `json:"percent"`
}

// Counts derives the tallies from the snapshot.
func (p Progress) Counts() Counts {
	pending := p.TotalFiles - len(p.Completed) - len(p.Failed)
	if pending < 0 {
		pending = 0
	}
	var percent float64
	if p.TotalFiles > 0 {
		percent = float64(len(p.Completed)) / float64(p.TotalFiles) * 100
	}
	return Counts{
		Total:      p.TotalFiles,
		Completed:  len(p.Completed),
		InProgress: len(p.InProgress),
		Failed:     len(p.Failed),
		Pending:    pending,
		Percent:    percent,
	}
}

// LoadProgress reads a progress artifact from disk.
func LoadProgress(path string) (Progress, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Progress{}, fmt.Errorf("review: read progress: %w", err)
	}
	var progress Progress
	if err := json.Unmarshal(data, &progress); err != nil {
		return Progress{}, fmt.Errorf("review: decode progress: %w", err)
	}
	return progress, nil
}

// progressStore serializes worker transitions into the progress artifact.
// Every transition rewrites the file atomically so external readers never
// observe a torn write.
type progressStore struct {
	path string

	mu   sync.Mutex
	data Progress
}

func newProgressStore(path string) *progressStore {
	return &progressStore{path: path}
}

func (s *progressStore) reset(total int, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = Progress{
		Started:    now.Format(time.RFC3339),
		TotalFiles: total,
		Completed:  []string{},
		InProgress: []string{},
		Failed:     []string{},
	}
	return s.flush()
}

func (s *progressStore) start(page string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.InProgress = append(s.data.InProgress, page)
	return s.flush()
}

func (s *progressStore) complete(page string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.InProgress = removeEntry(s.data.InProgress, page)
	s.data.Completed = append(s.data.Completed, page)
	return s.flush()
}

func (s *progressStore) fail(page string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.InProgress = removeEntry(s.data.InProgress, page)
	s.data.Failed = append(s.data.Failed, page)
	return s.flush()
}

func (s *progressStore) snapshot() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.data
	out.Completed = append([]string(nil), s.data.Completed...)
	out.InProgress = append([]string(nil), s.data.InProgress...)
	out.Failed = append([]string(nil), s.data.Failed...)
	return out
}

// flush writes the artifact via temp file + rename. Callers hold s.mu.
func (s *progressStore) flush() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("review: encode progress: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("review: create progress dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".progress-*")
	if err != nil {
		return fmt.Errorf("review: stage progress: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("review: stage progress: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("review: stage progress: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("review: write progress: %w", err)
	}
	return nil
}

func removeEntry(list []string, value string) []string {
	out := list[:0]
	for _, entry := range list {
		if entry != value {
			out = append(out, entry)
		}
	}
	return out
}
