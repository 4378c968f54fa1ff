package main

import "github.com/feanorMV/qrpatch/cmd/qrpatch/cmd"

func main() {
	cmd.Execute()
}
