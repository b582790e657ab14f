package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// rotateFiles shifts reelsort.log to reelsort.1.log and so on, dropping
// anything past maxBackups. The current file becomes backup 1.
func rotateFiles(basePath string, maxBackups int) error {
	dir := filepath.Dir(basePath)
	ext := filepath.Ext(basePath)
	stem := strings.TrimSuffix(filepath.Base(basePath), ext)

	backupPath := func(n int) string {
		return filepath.Join(dir, fmt.Sprintf("%s.%d%s", stem, n, ext))
	}

	nums, err := backupNumbers(dir, stem+".", ext)
	if err != nil {
		return err
	}

	// Shift highest first so no rename lands on an occupied name.
	sort.Sort(sort.Reverse(sort.IntSlice(nums)))
	for _, n := range nums {
		if n >= maxBackups {
			os.Remove(backupPath(n))
			continue
		}
		if err := os.Rename(backupPath(n), backupPath(n+1)); err != nil {
			return fmt.Errorf("failed to rotate %s: %w", backupPath(n), err)
		}
	}

	if _, err := os.Stat(basePath); err == nil {
		if err := os.Rename(basePath, backupPath(1)); err != nil {
			return fmt.Errorf("failed to rotate current log: %w", err)
		}
	}

	return nil
}

func backupNumbers(dir, prefix, ext string) ([]int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var nums []int
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ext) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, prefix), ext))
		if err != nil {
			continue
		}
		nums = append(nums, n)
	}

	return nums, nil
}
