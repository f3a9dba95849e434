package main

import "github.com/emiliopalmerini/buildlog/internal/cli"

func main() {
	cli.Execute()
}
