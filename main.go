package main

import "distance-backend/cmd"

func main() {
	cmd.Run()
}
