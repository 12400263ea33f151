package main

import (
	"github.com/vsinha/kitchen/pkg/interfaces/cli/commands"
)

func main() {
	commands.Execute()
}
