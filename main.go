package main

import "github.com/pitwall/strategy-engine/cmd"

func main() {
	cmd.Execute()
}
