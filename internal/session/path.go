package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// UniquePath returns requested if nothing exists there; otherwise it probes
// stem_1.ext, stem_2.ext, ... and returns the first free candidate. The
// extension defaults to wav when requested has none. Never picks a path
// that already exists, so an earlier recording is never overwritten.
func UniquePath(requested string) string {
	if !exists(requested) {
		return requested
	}

	dir := filepath.Dir(requested)
	ext := filepath.Ext(requested)
	stem := strings.TrimSuffix(filepath.Base(requested), ext)
	if ext == "" {
		ext = ".wav"
	}

	for i := 1; ; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, i, ext))
		if !exists(candidate) {
			return candidate
		}
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
