package main

import "github.com/Tiliavir/trivial-journal/cmd"

func main() {
	cmd.Execute()
}
