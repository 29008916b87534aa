package main

import "spellbook/cmd"

func main() {
	cmd.Execute()
}
