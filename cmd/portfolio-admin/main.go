// Command portfolio-admin runs owner maintenance tasks against the portfolio
// database without going through the HTTP server.
//
//	portfolio-admin users                        list accounts and their IDs
//	portfolio-admin seed --user <id> [--force]   seed default content
//	portfolio-admin status --user <id>           is the user's scope empty?
//	portfolio-admin show [--user <id>] [--featured]
//	portfolio-admin hash-password                bcrypt hash for OWNER_PASSWORD_HASH
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
