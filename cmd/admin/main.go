package main

import (
	"os"

	"submission-service/internal/util"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		util.Sync()
		os.Exit(1)
	}
}
