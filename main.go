package main

import "github.com/mouse-blink/sigcov/cmd"

func main() {
	cmd.Execute()
}
