package main

import "course-registry/cmd"

func main() {
	cmd.Execute()
}
