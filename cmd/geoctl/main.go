// Command geoctl converts and checks DMS coordinates from the shell and
// reverse geocodes single points with the configured provider.
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
