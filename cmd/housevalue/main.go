// Command housevalue analyzes the Boston housing table and prices
// properties with a linear model on log PRICE.
package main

import (
	"os"

	"github.com/YuminosukeSato/housevalue/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
