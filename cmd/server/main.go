package main

import "github.com/eleven-am/vokchat/internal/bootstrap"

func main() {
	bootstrap.Run()
}
