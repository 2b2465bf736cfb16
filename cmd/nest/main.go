package main

import "github.com/zoobzio/nest/internal/cli"

func main() {
	cli.Execute()
}
