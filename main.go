package main

import "productsvc/cmd"

func main() {
	cmd.Execute()
}
