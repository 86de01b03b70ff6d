package tui

import (
	"fmt"
	"os"
)

// truncateStr truncates a string to the specified length with ellipsis
func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// padRight pads s with spaces to width, truncating when longer
func padRight(s string, width int) string {
	return fmt.Sprintf("%-*s", width, truncateStr(s, width))
}

// checkImagePath verifies a custom QR image path points at a readable file
func checkImagePath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot use %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

func clientLabel(name string) string {
	if name == "" {
		return "Unknown Client"
	}
	return name
}
