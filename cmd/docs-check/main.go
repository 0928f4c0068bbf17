// Command docs-check runs `docsync check` and exits 0 when the index and the
// documentation files agree, 1 otherwise.
package main

import "github.com/fulmenhq/docsync/cmd"

func main() {
	cmd.ExecuteTool("check")
}
