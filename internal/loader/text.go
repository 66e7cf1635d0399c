package loader

import (
	"bufio"
	"io"
)

// TextLoader handles plain text and markdown files, which already carry the
// tokenized policy dialect.
type TextLoader struct{}

func (l *TextLoader) Lines(r io.Reader, filename string) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
