package main

import "tikcut/internal/cli"

func main() {
	cli.Main()
}
