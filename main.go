package main

import "github.com/AunSupertramp/ETABS-GlobalCheck/cmd"

func main() {
	cmd.Execute()
}
