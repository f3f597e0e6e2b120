// This program performs administrative tasks for a running ledger node.
package main

import (
	"github.com/ardanlabs/chatchain/app/tooling/admin/cmd"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {
	cmd.Execute(build)
}
