// Package filex holds small filesystem helpers shared by the device layer.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureSubDir creates base/dirName if it does not already exist and
// returns the joined path.
func EnsureSubDir(base, dirName string) (string, error) {
	dir := filepath.Join(base, dirName)

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}
