package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FindTranscriptDBs walks root and returns every SQLite transcript database
// under it, in lexical order. When root is itself a file it is returned
// as the single candidate.
func FindTranscriptDBs(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read source path: %w", err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var dbs []string
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Skip directories we can't access
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".db", ".sqlite", ".sqlite3":
			dbs = append(dbs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	if len(dbs) == 0 {
		LogInfo("No transcript databases found under %s", root)
	}
	return dbs, nil
}

// FindArchives walks root and returns every conversations file under it, in
// lexical order. When root is itself a file it is returned as the single
// candidate.
func FindArchives(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive path: %w", err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var archives []string
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.IsDir() && strings.HasSuffix(info.Name(), ".jsonl") {
			archives = append(archives, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	return archives, nil
}
