// Command rc inspects and edits resource containers.
package main

import "github.com/rc-project/rc/internal/cli"

func main() {
	cli.Execute()
}
