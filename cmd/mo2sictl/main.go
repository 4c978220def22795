package main

import (
	"os"

	"mo2sid/internal/ctl"
)

func main() {
	os.Exit(ctl.Execute())
}
