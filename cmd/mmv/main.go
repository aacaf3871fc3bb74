// Command mmv views and edits mindmap topic documents in the terminal and
// exports them as JSON, Markdown, SVG, PNG or HTML.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
