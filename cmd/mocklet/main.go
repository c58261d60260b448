// mocklet - a declarative mock HTTP responder.
package main

import "github.com/mocklet/mocklet/pkg/cli"

func main() {
	cli.Execute()
}
