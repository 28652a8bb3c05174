package main

import (
	"os"

	"leetcode-srs-bot/cmd"
)

var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	cmd.SetVersionInfo(version, commit, date)
	if err := cmd.New().Execute(); err != nil {
		os.Exit(1)
	}
}
