package main

import (
	"student-data-system/cmd/server"
)

func main() {
	server.Init()
	server.Run()
}
