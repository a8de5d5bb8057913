package main

import "github.com/courtdata/matchprep/internal/cli"

func main() {
	cli.Execute()
}
