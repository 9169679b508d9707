package main

import (
	"fmt"
	"os"

	"github.com/payrail/payrail/cmd/cli/auth"
	"github.com/payrail/payrail/cmd/cli/cron"
	"github.com/payrail/payrail/cmd/cli/recipients"
	"github.com/payrail/payrail/cmd/cli/root"
	"github.com/payrail/payrail/cmd/cli/schedules"
)

func main() {
	rootCmd := root.GetRoot()
	auth.InitAuth(rootCmd)
	recipients.InitRecipients(rootCmd)
	schedules.InitSchedules(rootCmd)
	cron.InitCron(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
