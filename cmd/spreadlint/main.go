// Copyright © 2024 The spreadlint authors

package main

import "github.com/luthersystems/spreadlint/cmd"

func main() {
	cmd.Execute()
}
