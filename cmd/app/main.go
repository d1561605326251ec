package main

import (
	"os"

	"sweetdelivery/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
