/*
	Copyright 2025 Markus Papenbrock
*/

package main

import "github.com/mpapenbr/lapsim-go/cmd"

func main() {
	cmd.Execute()
}
