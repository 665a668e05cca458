package main

import (
	"github.com/oche-club/dartscore-go/internal/cli"
)

func main() {
	cli.Execute()
}
