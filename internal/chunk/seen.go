package chunk

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// lineSet holds trimmed lines.
type lineSet map[string]struct{}

func (s lineSet) has(line string) bool {
	_, ok := s[line]
	return ok
}

func (s lineSet) add(line string) {
	s[line] = struct{}{}
}

// target is the cached state of one output file for the current run.
type target struct {
	seen lineSet
	// The file exists and its last line has no trailing newline yet.
	unterminated bool
}

// loadTarget reads an existing output file into a fresh target.
// A missing file yields an empty target.
func loadTarget(path string) (*target, error) {
	t := &target{seen: make(lineSet)}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return t, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	for {
		line, err := r.ReadString('\n')
		if line != "" {
			if clean := strings.TrimSpace(line); clean != "" {
				t.seen.add(clean)
			}
			t.unterminated = !strings.HasSuffix(line, "\n")
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}
	return t, nil
}
