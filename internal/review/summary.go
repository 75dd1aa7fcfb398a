package review

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goliatone/go-refdocs/corpus"
)

// DefaultSummaryFileName is the artifact written into the data directory
// after every wave.
const DefaultSummaryFileName = "review_summary.json"

// Summary is the wave outcome artifact. Pages carries one quality summary
// per reviewed page, in review order.
type Summary struct {
	GeneratedAt   *time.Time             `json:"generated_at"`
	Agents        int                    `json:"agents"`
	Processed     int                    `json:"processed"`
	Skipped       int                    `json:"skipped"`
	Failed        int                    `json:"failed"`
	Pages         []corpus.ReviewSummary `json:"pages"`
	QualityPassed bool                   `json:"quality_passed"`
}

// WriteSummaryFile writes the wave summary under dataDir and returns the
// artifact path.
func WriteSummaryFile(dataDir, fileName string, summary *Summary) (string, error) {
	if fileName == "" {
		fileName = DefaultSummaryFileName
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("review: create data dir: %w", err)
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("review: encode summary: %w", err)
	}

	path := filepath.Join(dataDir, fileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("review: write summary: %w", err)
	}
	return path, nil
}
