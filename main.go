package main

import "github.com/KaramelBytes/smarteda-cli/cmd"

func main() {
	cmd.Execute()
}
