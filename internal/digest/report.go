// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package digest

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

// Report is the on-disk record of one run: the window, what was kept, and
// the exclusion accounting. It exists for debugging yield ("why was this
// week empty?") and is never read back by the pipeline itself.
type Report struct {
	Mode        Mode      `yaml:"mode"`
	WindowStart string    `yaml:"window_start"`
	WindowEnd   string    `yaml:"window_end"`
	Stats       Stats     `yaml:"stats"`
	ChunkErrors []string  `yaml:"chunk_errors,omitempty"`
	Digest      Digest    `yaml:"digest"`
	Timestamp   time.Time `yaml:"timestamp"`
}

// WriteReport saves an immutable YAML report of the run to path.
func WriteReport(path string, res RunResult) error {
	rep := Report{
		Mode:        res.Mode,
		WindowStart: res.WindowStart.Format("2006-01-02"),
		WindowEnd:   res.WindowEnd.Format("2006-01-02"),
		Stats:       res.Stats,
		Digest:      res.Digest,
		Timestamp:   time.Now(),
	}
	for _, ce := range res.ChunkErrors {
		rep.ChunkErrors = append(rep.ChunkErrors, ce.Error())
	}

	data, err := yaml.Marshal(&rep)
	if err != nil {
		return fmt.Errorf("marshaling run report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
