// Command furry-model applies YAML patches to a YAML state document through a
// store and reports the result.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
