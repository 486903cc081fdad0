// main is the entry point for the gitstreak CLI.
package main

import (
	"github.com/huangsam/gitstreak/cmd"
	"github.com/huangsam/gitstreak/internal/contract"
	"github.com/huangsam/gitstreak/internal/iocache"
	"github.com/joho/godotenv"
)

func main() {
	// A local .env may carry GITSTREAK_TOKEN and friends
	_ = godotenv.Load()

	cmd.SetCacheManager(iocache.Manager)
	err := cmd.Execute()
	iocache.CloseStores()
	if err != nil {
		contract.LogFatal("gitstreak failed", err)
	}
}
