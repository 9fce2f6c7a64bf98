// filepick - pick files and folders from a WebDAV cloud store.
package main

import (
	"os"

	"github.com/rotdrop/filepicker/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
