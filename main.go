package main

import "github.com/devopsext/metrics/cmd"

func main() {
	cmd.Execute()
}
