package main

import "github.com/jhoicas/invoice-gst-engine/internal/cli"

func main() {
	cli.Execute()
}
