package main

import "keyremap/internal/cli"

func main() {
	cli.Execute()
}
