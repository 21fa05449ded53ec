package main

import (
	"github.com/nftrade-labs/NFTradeBackend/cmd"
)

func main() {
	cmd.Execute()
}
