package main

import "github.com/tessro/chorus/internal/cli"

func main() {
	cli.Execute()
}
