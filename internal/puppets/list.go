package puppets

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadNationList reads a plain text file with one nation name per line.
// Names are whitespace-trimmed and blank lines are dropped.
func ReadNationList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open nation list: %w", err)
	}
	defer f.Close()

	nations := []string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		nations = append(nations, line)
	}

	return nations, scanner.Err()
}
