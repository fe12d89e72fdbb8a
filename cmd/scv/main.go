package main

import "github.com/AlexSherTemplar/StaticCodeViewer/internal/cli"

func main() {
	cli.Execute()
}
