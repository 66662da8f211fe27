package main

import "github.com/iksnae/captain-session/cmd"

func main() {
	cmd.Execute()
}
