package ringlog

import "golang.org/x/sys/unix"

// diskFreeBytes reports available space on the filesystem backing path,
// via golang.org/x/sys/unix.Statfs rather than the standard library's
// syscall package, for the same portability reasons that govern its use
// elsewhere in this module.
func diskFreeBytes(path string) (int64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, fmtErrorf("failed to stat filesystem for %s: %w", path, err)
	}
	return int64(stat.Bavail) * int64(stat.Bsize), nil
}
