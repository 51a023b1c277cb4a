package observers

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harunnryd/callpanel/pkg/redact"
)

// Per-call artifact suffixes.
const (
	SuffixCost     = ".cost.json"
	SuffixTimeline = ".jsonl"
)

// ArtifactName is the file stem for a call's artifacts. The phone number in
// the call id is masked while redaction is on.
func ArtifactName(callID string) string {
	return sanitizeID(redact.CallID(callID))
}

// artifactPath returns "" when dir is unset or the id is empty.
func artifactPath(dir, callID, suffix string) string {
	dir = strings.TrimSpace(dir)
	name := ArtifactName(callID)
	if dir == "" || name == "" {
		return ""
	}
	return filepath.Join(dir, name+suffix)
}

func isArtifact(name string) bool {
	if !strings.HasPrefix(name, "call-") {
		return false
	}
	return strings.HasSuffix(name, SuffixCost) || strings.HasSuffix(name, SuffixTimeline)
}

// PurgeArtifacts deletes call artifacts in dir last modified before
// now-maxAge and reports how many went. A missing dir is not an error.
func PurgeArtifacts(dir string, maxAge time.Duration) (int, error) {
	if strings.TrimSpace(dir) == "" || maxAge <= 0 {
		return 0, nil
	}
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	var errs []error
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipDir
			}
			errs = append(errs, err)
			return nil
		}
		if d.IsDir() {
			if path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if !isArtifact(d.Name()) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		if !info.ModTime().Before(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			errs = append(errs, err)
			return nil
		}
		removed++
		return nil
	})
	if err != nil {
		errs = append(errs, err)
	}
	return removed, errors.Join(errs...)
}

func sanitizeID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case strings.ContainsRune("-_.+*", r):
			return r
		default:
			return '_'
		}
	}, id)
}

// sanitizeFields passes free text such as prompts and dispatch output through redaction.
func sanitizeFields(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		if s, ok := v.(string); ok {
			v = redact.Text(s)
		}
		out[k] = v
	}
	return out
}
