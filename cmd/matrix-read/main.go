package main

import "github.com/kurozz/matrix-control/cmd/matrix-read/cmd"

func main() {
	cmd.Execute()
}
