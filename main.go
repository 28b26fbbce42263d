package main

import "github.com/root-daemon/auto-resume/cmd"

func main() {
	cmd.Execute()
}
