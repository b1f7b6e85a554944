package main

import "chronoassist/cmd"

func main() {
	cmd.Execute()
}
