// Command nodepatch applies JSON Patch documents to JSON, YAML and msgpack
// files.
package main

import (
	"os"

	"github.com/sanity-io/nodepatch/cmd/nodepatch/command"
)

func main() {
	if err := command.NewCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
