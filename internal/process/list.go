package process

import (
	"runtime"

	gops "github.com/shirou/gopsutil/v4/process"
)

// listProcessNames reports every process name. Outside Windows the game runs
// under a compatibility layer, so argv[0] is reported next to the short name.
func listProcessNames() ([]string, error) {
	procs, err := gops.Processes()
	if err != nil {
		return nil, err
	}
	withArgv0 := runtime.GOOS != "windows"
	names := make([]string, 0, len(procs))
	for _, p := range procs {
		if name, err := p.Name(); err == nil && name != "" {
			names = append(names, name)
		}
		if !withArgv0 {
			continue
		}
		if args, err := p.CmdlineSlice(); err == nil && len(args) > 0 {
			names = append(names, args[0])
		}
	}
	return names, nil
}
