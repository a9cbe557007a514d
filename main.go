package main

import "locket-backend/cmd"

func main() {
	cmd.Run()
}
