package main

import (
	"os"

	"github.com/msto63/lavoisier/cmd/lavoisier/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
