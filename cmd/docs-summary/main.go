// Command docs-summary runs `docsync summary`, regenerating summary.txt from
// the documents linked in the index.
package main

import "github.com/fulmenhq/docsync/cmd"

func main() {
	cmd.ExecuteTool("summary")
}
