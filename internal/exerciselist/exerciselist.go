// Package exerciselist loads exercise names from plain text files.
package exerciselist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadNames reads one exercise name per line from the provided file path.
func LoadNames(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for a read-only list.
			_ = cerr
		}
	}()
	return ReadNames(file)
}

// ReadNames reads one name per line. Blank lines and lines starting with '#'
// are ignored, as are repeats of an earlier name ignoring case.
func ReadNames(r io.Reader) ([]string, error) {
	var names []string
	seen := map[string]struct{}{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key := strings.ToLower(line)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("exercise list is empty")
	}
	return names, nil
}
