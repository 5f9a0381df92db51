package main

import (
	"github.com/mveld/empadmin/internal/cli"
)

func main() {
	cli.Execute()
}
