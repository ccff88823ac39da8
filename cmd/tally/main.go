package main

import "github.com/funvibe/tally/pkg/cli"

func main() {
	cli.Run()
}
