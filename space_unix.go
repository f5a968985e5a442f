//go:build linux || darwin

package seqdict

import "golang.org/x/sys/unix"

// freeSpace reports the bytes available to unprivileged users on the
// filesystem containing dir. known is always true on this platform.
func freeSpace(dir string) (avail uint64, known bool, err error) {
	var st unix.Statfs_t
	if err := unix.Statfs(dir, &st); err != nil {
		return 0, false, err
	}
	return uint64(st.Bavail) * uint64(st.Bsize), true, nil
}
