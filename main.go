package main

import "github.com/drubhattacharya/budget-simulator/cmd"

func main() {
	cmd.Execute()
}
