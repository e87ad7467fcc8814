//go:build windows

package trash

// mountPoints is a stub on Windows; only the home trash directory is
// scanned there.
func mountPoints() ([]string, error) {
	return nil, nil
}
