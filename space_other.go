//go:build !linux && !darwin

package seqdict

// freeSpace cannot be determined portably on this platform. The
// preflight check is skipped; preallocation still fails deterministically
// if the disk cannot hold the file.
func freeSpace(dir string) (avail uint64, known bool, err error) {
	return 0, false, nil
}
