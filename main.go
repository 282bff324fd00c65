package main

import "github.com/atikulmunna/logdash/internal/cmd"

func main() {
	cmd.Execute()
}
