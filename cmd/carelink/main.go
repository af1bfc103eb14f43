package main

import "carelink-client/cmd/carelink/command"

func main() {
	command.Execute()
}
