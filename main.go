package main

import "github.com/CarloBu/lottie-svg-toolbox/cmd"

func main() {
	cmd.Execute()
}
