package main

import "github.com/nfrund/mqbroker/cmd/brokerctl/cmd"

func main() {
	cmd.Execute()
}
