// Command planctl runs user plan maintenance from a shell: backfilling plans
// from verified payments and the same plan actions the admin API offers.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
