// Package main is the entry point of the vtusim command.
package main

import "github.com/sarchlab/vtusim/vtusim/cmd"

func main() {
	cmd.Execute()
}
