package main

import "github.com/kurozz/matrix-control/cmd/matrix-write/cmd"

func main() {
	cmd.Execute()
}
