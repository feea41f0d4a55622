package main

import "github.com/assetops/entitlements/cli"

func main() {
	cli.Execute()
}
