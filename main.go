package main

import "github.com/khrees2412/hireflow/cmd"

func main() {
	cmd.Execute()
}
