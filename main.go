package main

import "github.com/KaramelBytes/safetylens-cli/cmd"

func main() {
	cmd.Execute()
}
