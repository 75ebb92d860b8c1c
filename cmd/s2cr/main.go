package main

import "github.com/s2cr/repair-desk/cmd/s2cr/cmd"

func main() {
	cmd.Execute()
}
