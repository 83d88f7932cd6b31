package main

import (
	"github.com/mydehq/vidmove/internal/cli"
)

func main() {
	cli.Execute()
}
