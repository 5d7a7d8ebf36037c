package main

import "github.com/frahmantamala/cxm/cmd"

func main() {
	cmd.Execute()
}
