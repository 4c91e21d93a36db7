package main

import "github.com/sithumonline/payment-reconciler/cmd"

func main() {
	cmd.Execute()
}
