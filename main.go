package main

import "github.com/prosodia/prosody-coach/cmd"

func main() {
	cmd.Execute()
}
