// cmd/keid/main.go
package main

import (
	"os"

	"github.com/sjatkinson/keid/internal/cli"
)

func main() {
	code := cli.Run(os.Args[1:], cli.Config{
		AppName: "keid",
		Version: "0.1.0-dev",
	})
	os.Exit(code)
}
