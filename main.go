package main

import "github.com/robalobadob/memorygame/cmd"

func main() {
	cmd.Execute()
}
