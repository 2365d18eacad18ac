package util

import "os"

// FileSize returns the current size of a file in bytes. A missing file
// counts as size zero, matching how the log reader treats a timestamps
// file that has not been written yet.
func FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	return info.Size(), nil
}
