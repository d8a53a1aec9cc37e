package main

import "github.com/kingsmao/emx-connector/internal/cli"

func main() {
	cli.Execute()
}
