package main

import (
	"os"

	"github.com/clawdbot/ccrun/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
