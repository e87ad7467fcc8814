package cli

import (
	"fmt"
	"runtime/debug"
	"strings"
)

type Version struct {
	AppName   string
	Version   string
	Revision  string
	BuildDate string
}

func (v Version) Print() string {
	var s strings.Builder
	switch v.Version {
	case "unset", "unknown", "develop":
		if info, ok := debug.ReadBuildInfo(); ok {
			v.Version = info.Main.Version
		}
	}
	fmt.Fprintln(&s, v.AppName+" - send items to the trash instead of the void")
	fmt.Fprintln(&s, "")
	fmt.Fprintln(&s, "version: "+v.Version)
	fmt.Fprintln(&s, "revision: "+v.Revision)
	fmt.Fprintln(&s, "buildDate: "+v.BuildDate)
	return s.String()
}
