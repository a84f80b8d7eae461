package main

import "github.com/vvatanabe/paketpilot/internal/cmd"

func main() {
	cmd.Execute()
}
