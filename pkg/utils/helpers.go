package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

//ClampInt returns v limited to [lo, hi]
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

//ListDir returns the names of the files/ directories in given path
func ListDir(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("ListDir: Error, got '%v'", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}

	return names, nil
}

//RemoveStale deletes files in dir matching pattern, left behind by a previous process.
//It returns how many files were removed.
func RemoveStale(dir, pattern string) (int, error) {
	names, err := ListDir(dir)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, name := range names {
		if ok, _ := filepath.Match(pattern, name); !ok {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return removed, fmt.Errorf("RemoveStale: Could not remove '%s', got '%v'", name, err)
		}
		removed++
	}

	return removed, nil
}
