package main

import (
	"StreamingMusical/cmd"
)

func main() {
	cmd.Execute()
}
