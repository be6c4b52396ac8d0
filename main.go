package main

import "github.com/CosmoTheDev/scamshield/cmd"

func main() {
	cmd.Execute()
}
