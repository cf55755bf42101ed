package main

import "locplot/cmd"

func main() {
	cmd.Execute()
}
