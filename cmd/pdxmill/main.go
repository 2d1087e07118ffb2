package main

import "pdxmill/internal/cli"

func main() {
	cli.Execute()
}
