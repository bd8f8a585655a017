package deployer

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// SweepStale removes deployment working directories older than maxAge that a
// crashed process left behind. It returns the number removed.
func SweepStale(workDir string, maxAge time.Duration, now time.Time, log *zap.Logger) (int, error) {
	entries, err := os.ReadDir(workDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	removed := 0
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), WorkDirPrefix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) < maxAge {
			continue
		}
		path := filepath.Join(workDir, e.Name())
		if err := os.RemoveAll(path); err != nil {
			log.Warn("sweep workdir", zap.String("dir", path), zap.Error(err))
			continue
		}
		removed++
	}
	return removed, nil
}
