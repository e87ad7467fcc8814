//go:build !windows

package trash

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/moby/sys/mountinfo"
)

// Skip file systems that can't have trash directories
var skipFSTypes = map[string]bool{
	"proc":        true,
	"sysfs":       true,
	"devtmpfs":    true,
	"devpts":      true,
	"tmpfs":       true,
	"cgroup":      true,
	"cgroup2":     true,
	"pstore":      true,
	"securityfs":  true,
	"debugfs":     true,
	"configfs":    true,
	"fusectl":     true,
	"bpf":         true,
	"nsfs":        true,
	"efivarfs":    true,
	"hugetlbfs":   true,
	"mqueue":      true,
	"binfmt_misc": true,
}

// mountPoints returns mount points that can contain trash directories
func mountPoints() ([]string, error) {
	mounts, err := mountinfo.GetMounts(func(info *mountinfo.Info) (skip, stop bool) {
		// Skip known unsuitable filesystems
		if skipFSTypes[info.FSType] {
			return true, false
		}

		// Skip read-only filesystems
		for _, opt := range strings.Split(info.Options, ",") {
			if opt == "ro" {
				return true, false
			}
		}

		return false, false
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get mount info: %w", err)
	}

	seen := make(map[string]bool)
	var points []string
	for _, m := range mounts {
		if !seen[m.Mountpoint] {
			points = append(points, m.Mountpoint)
			seen[m.Mountpoint] = true
			slog.Debug("found mount point", "mountpoint", m.Mountpoint, "fstype", m.FSType)
		}
	}

	return points, nil
}
