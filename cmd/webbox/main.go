package main

import "github.com/oshokin/webbox/cmd/webbox/cmd"

func main() {
	cmd.Execute()
}
