package main

import "github.com/takato23/acomerlahechopormi-sub001/internal/cli"

func main() {
	cli.Execute()
}
