package main

import "github.com/Tiliavir/trivial-time-clock/cmd"

func main() {
	cmd.Execute()
}
