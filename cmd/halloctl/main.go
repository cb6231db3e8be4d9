package main

import (
	"fmt"
	"os"

	"hallod/internal/halloctl"
)

func main() {
	if err := halloctl.BuildRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
