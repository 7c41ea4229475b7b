package main

import "meshsync/cmd/meshsync/command"

func main() {
	command.Execute()
}
