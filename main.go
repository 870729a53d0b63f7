package main

import "github.com/fakeyudi/labs/cmd"

func main() {
	cmd.Execute()
}
