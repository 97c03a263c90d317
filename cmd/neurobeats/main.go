// Command neurobeats plays task-matched focus music with crossfades between
// tasks.
package main

import (
	"fmt"
	"os"
)

// version is set at build time.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
