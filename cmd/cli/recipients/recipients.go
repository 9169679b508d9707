package recipients

import (
	"encoding/json"
	"fmt"

	"github.com/payrail/payrail/cmd/cli/client"
	"github.com/payrail/payrail/cmd/cli/output"
	"github.com/payrail/payrail/internal/models"
	"github.com/spf13/cobra"
)

// InitRecipients registers recipient commands on the root command.
func InitRecipients(rootCmd *cobra.Command) {
	recipientsCmd := &cobra.Command{
		Use:   "recipients",
		Short: "Manage payroll recipients",
	}

	recipientsCmd.AddCommand(
		listRecipientsCmd(),
		addRecipientCmd(),
		deleteRecipientCmd(),
	)

	rootCmd.AddCommand(recipientsCmd)
}

func listRecipientsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List payroll recipients",
		RunE: func(cmd *cobra.Command, args []string) error {
			var list []models.Recipient
			if err := client.Do("GET", "/v1/recipients", nil, &list); err != nil {
				return err
			}

			if asJSON {
				b, _ := json.MarshalIndent(list, "", "  ")
				fmt.Println(string(b))
				return nil
			}

			rows := make([][]interface{}, 0, len(list))
			for _, r := range list {
				rows = append(rows, []interface{}{r.ID, r.Name, r.Email, r.WalletAddress, r.Rate})
			}
			output.RenderTable([]string{"ID", "Name", "Email", "Wallet", "Rate"}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON instead of a table")
	return cmd
}

func addRecipientCmd() *cobra.Command {
	var name, email, wallet, btc string
	var rate float64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a payroll recipient",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{
				"name":           name,
				"email":          email,
				"wallet_address": wallet,
				"btc_address":    btc,
				"rate":           rate,
			}

			var rec models.Recipient
			if err := client.Do("POST", "/v1/recipients", payload, &rec); err != nil {
				return err
			}

			fmt.Printf("Recipient %d (%s) added.\n", rec.ID, rec.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "recipient name")
	cmd.Flags().StringVar(&email, "email", "", "recipient email (optional)")
	cmd.Flags().StringVar(&wallet, "wallet", "", "Stacks wallet address (SP... or ST...)")
	cmd.Flags().StringVar(&btc, "btc", "", "BTC payout address (optional)")
	cmd.Flags().Float64Var(&rate, "rate", 0, "pay rate in USD")

	return cmd
}

func deleteRecipientCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a payroll recipient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Do("DELETE", "/v1/recipients/"+args[0], nil, nil); err != nil {
				return err
			}
			fmt.Println("Recipient deleted.")
			return nil
		},
	}
}
