package cron

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/payrail/payrail/cmd/cli/config"
	"github.com/spf13/cobra"
)

// InitCron registers the cron trigger command on the root command.
func InitCron(rootCmd *cobra.Command) {
	cronCmd := &cobra.Command{
		Use:   "cron",
		Short: "Trigger scheduled jobs",
	}
	cronCmd.AddCommand(checkDueCmd())
	rootCmd.AddCommand(cronCmd)
}

func checkDueCmd() *cobra.Command {
	var secret string

	cmd := &cobra.Command{
		Use:   "check-due",
		Short: "Run the due-payroll check now",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = os.Getenv("CRON_SECRET")
			}

			req, err := http.NewRequest("GET", config.APIURL()+"/internal/cron/check-due", nil)
			if err != nil {
				return err
			}
			req.Header.Set("Authorization", "Bearer "+secret)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			body, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
			}
			fmt.Println(string(body))
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "cron secret (defaults to CRON_SECRET)")
	return cmd
}
