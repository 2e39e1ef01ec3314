package main

import (
	"github.com/custodia-labs/varsearch-cli/internal/adapters/driving/cli"
)

func main() {
	cli.Execute()
}
