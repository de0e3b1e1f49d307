package main

import "github.com/emrgen/pagepurge/cmd"

func main() {
	cmd.Execute()
}
