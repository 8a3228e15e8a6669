package main

import "gymclass/cmd"

func main() {
	cmd.Execute()
}
