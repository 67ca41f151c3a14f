package main

import "github.com/noirtty/noirtty-server/internal/cmd"

func main() {
	cmd.ExecuteWatch()
}
