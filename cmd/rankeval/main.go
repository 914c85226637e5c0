package main

import (
	"go.brendoncarroll.net/star"

	"rankeval.org/rankeval/evalcmd"
)

func main() {
	star.Main(evalcmd.Root())
}
