package main

import "github.com/naka-gawa/harbor-summary/cmd"

func main() {
	cmd.Execute()
}
