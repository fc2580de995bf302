package main

import "github.com/oshokin/cribl-upgrade/cmd/cribl-upgrade/cmd"

func main() {
	cmd.Execute()
}
