// emissions-forecast projects Scope 1/2/3 emissions under reduction scenarios
// and assembles the accompanying report.
//
// Usage:
//
//	emissions-forecast project  [--scenario=<name>] [--horizon=<years>] [--seed=<n>]
//	emissions-forecast report   [--scenario=<name>] [--format=pretty|json|markdown|html]
//	emissions-forecast overview [--scenario=<name>]
//	emissions-forecast serve    [--address=<addr>] [--server-config=<path>]
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	// A missing .env file is not an error; the environment is used as is.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": %q}\n", err.Error())
		os.Exit(1)
	}
}
