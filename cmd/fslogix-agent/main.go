package main

import "github.com/okarpov/fslogix-agent/cmd/fslogix-agent/cmd"

func main() {
	cmd.Execute()
}
