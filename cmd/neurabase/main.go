package main

import "neurabase/internal/cli"

func main() {
	cli.Execute()
}
