package main

import "github.com/LegacyCodeHQ/byecycle/cmd"

func main() {
	cmd.Execute()
}
