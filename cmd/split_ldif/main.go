// Command split_ldif partitions an LDIF export into a fixed number of
// shards using one of several deterministic routing strategies,
// preserving each subtree's cohesion across shards.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
