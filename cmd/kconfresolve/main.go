package main

import "kconfresolve/internal/cli"

func main() {
	cli.Execute()
}
