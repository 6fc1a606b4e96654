package main

import "github.com/jdxcode/noderun/cmd"

func main() {
	cmd.Execute()
}
