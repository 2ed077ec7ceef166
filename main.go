package main

import "github.com/sarchlab/prodsim/cmd"

func main() {
	cmd.Execute()
}
