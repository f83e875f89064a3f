package main

import "github.com/Bnei-Baruch/apiurlfix/internal/cli"

func main() {
	cli.Execute()
}
