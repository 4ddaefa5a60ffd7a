// Package util holds small helpers shared across packages.
package util

import (
	"fmt"
	"os"
	"os/exec"
)

// FindBinary locates an external executable. Candidates are tried in order:
// an explicit path from the environment variable envVar, ./name relative to
// the working directory, then name on PATH. The first existing executable
// wins.
func FindBinary(name, envVar string) (string, error) {
	var candidates []string
	if envVar != "" {
		if envPath := os.Getenv(envVar); envPath != "" {
			candidates = append(candidates, envPath)
		}
	}
	candidates = append(candidates, "./"+name)

	for _, candidate := range candidates {
		if isExecutable(candidate) {
			return candidate, nil
		}
	}
	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}
	return "", fmt.Errorf("binary %s not found", name)
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode()&0111 != 0
}
