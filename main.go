package main

import "github.com/iksnae/tourmate/cmd"

func main() {
	cmd.Execute()
}
