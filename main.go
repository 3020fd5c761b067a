package main

import "github.com/jereslo/worklog-sync/cmd"

func main() {
	cmd.Execute()
}
