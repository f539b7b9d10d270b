package main

import "github.com/frahmantamala/ticketing/cmd"

func main() {
	cmd.Execute()
}
