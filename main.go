package main

import "github.com/jlaurila/stayscout/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
