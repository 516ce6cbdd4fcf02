// Bulkferm estimates sourdough bulk fermentation time and tracks batches.
//
// Usage:
//
//	bulkferm estimate --temp 70 --starter 15
//	bulkferm watch --temp 72 --starter 20 --label "country loaf"
package main

import (
	"fmt"
	"os"

	"github.com/hammamikhairi/bulkferm/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
