package engine

import (
	"bufio"
	"bytes"
	"canvas-lab/errors"
	"io/fs"
	"strings"
)

// WordLists is the merged content of the embedded moderation
// dictionaries, with the language codes kept around for boot logging.
type WordLists struct {
	Words     []string
	Languages []string
}

// LoadWordLists reads every .txt file under dir in the given filesystem,
// treating each file as one language dictionary ("en.txt" -> "en") with
// one banned word per line. Duplicates across languages collapse.
func LoadWordLists(fsys fs.FS, dir string) (*WordLists, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	var languages []string
	unique := make(map[string]struct{})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		languages = append(languages, strings.TrimSuffix(entry.Name(), ".txt"))

		data, err := fs.ReadFile(fsys, dir+"/"+entry.Name())
		if err != nil {
			return nil, err
		}

		// Scanner handles both \n and \r\n line endings.
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				unique[strings.ToLower(line)] = struct{}{}
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}

	if len(unique) == 0 {
		return nil, errors.ErrEmptyWords
	}

	words := make([]string, 0, len(unique))
	for w := range unique {
		words = append(words, w)
	}
	return &WordLists{Words: words, Languages: languages}, nil
}
