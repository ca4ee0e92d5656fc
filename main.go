package main

import "github.com/dyike/CortexFX/internal/cli"

func main() {
	cli.Run()
}
