package main

import "github.com/Tiliavir/toggl-tally/cmd"

func main() {
	cmd.Execute()
}
