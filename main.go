package main

import "github.com/KaramelBytes/actisum-cli/cmd"

func main() {
	cmd.Execute()
}
