package main

import "github.com/electr1fy0/smartnotes/cmd"

func main() {
	cmd.Execute()
}
