package main

import "github.com/mlendvay/hundred-days/cmd"

func main() {
	cmd.Execute()
}
