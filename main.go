package main

import "github.com/iksnae/convolog/cmd"

func main() {
	cmd.Execute()
}
