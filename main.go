package main

import "github.com/RamXX/qaseio/cmd"

func main() {
	cmd.Execute()
}
