package main

import "github.com/ogulcanaydogan/oaiusage/internal/cli"

func main() {
	cli.Execute()
}
