package gpio

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mitchellh/go-ps"
)

// matrixExecutables are the binaries of this project that claim GPIO lines.
var matrixExecutables = map[string]struct{}{
	"matrix-write": {},
	"matrix-read":  {},
}

// busyHint walks the process table looking for another matrix-control
// process that could be holding the line. Returns "" when none is found or
// the table cannot be read.
func busyHint() string {
	processes, err := ps.Processes()
	if err != nil {
		return ""
	}

	self := os.Getpid()

	var holders []string

	for _, process := range processes {
		if process.Pid() == self {
			continue
		}

		name := strings.TrimSuffix(process.Executable(), ".exe")
		if _, ok := matrixExecutables[name]; !ok {
			continue
		}

		holders = append(holders, fmt.Sprintf("%s pid %d", name, process.Pid()))
	}

	if len(holders) == 0 {
		return ""
	}

	sort.Strings(holders)

	return "likely held by " + strings.Join(holders, ", ")
}
