package classifier

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadLabels reads the class-label list that accompanies the exported model,
// one label per line, in model output order. Blank lines are skipped.
func LoadLabels(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening labels file: %w", err)
	}
	defer f.Close()

	var labels []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		labels = append(labels, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading labels file: %w", err)
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("labels file %s is empty", path)
	}
	return labels, nil
}

// argmax returns the index of the largest score. Ties resolve to the first
// occurrence.
func argmax(scores []float32) int {
	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}
	return best
}
