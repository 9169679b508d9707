package schedules

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/payrail/payrail/cmd/cli/client"
	"github.com/payrail/payrail/cmd/cli/output"
	"github.com/payrail/payrail/internal/models"
	"github.com/spf13/cobra"
)

// InitSchedules registers schedule commands on the root command.
func InitSchedules(rootCmd *cobra.Command) {
	schedulesCmd := &cobra.Command{
		Use:   "schedules",
		Short: "Manage payroll schedules",
	}

	schedulesCmd.AddCommand(
		listSchedulesCmd(),
		createScheduleCmd(),
		activateScheduleCmd(),
		runScheduleCmd(),
	)

	rootCmd.AddCommand(schedulesCmd)
}

func listSchedulesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List payroll schedules",
		RunE: func(cmd *cobra.Command, args []string) error {
			var list []models.PaySchedule
			if err := client.Do("GET", "/v1/schedules", nil, &list); err != nil {
				return err
			}

			if asJSON {
				b, _ := json.MarshalIndent(list, "", "  ")
				fmt.Println(string(b))
				return nil
			}

			rows := make([][]interface{}, 0, len(list))
			for _, s := range list {
				rows = append(rows, []interface{}{
					s.ID, s.Name, s.Frequency, s.PayDay, s.Status, s.NextRunAt.Format("2006-01-02"),
				})
			}
			output.RenderTable([]string{"ID", "Name", "Frequency", "Pay Day", "Status", "Next Run"}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON instead of a table")
	return cmd
}

// parseItems turns repeated "recipientID:amount" flags into request items.
func parseItems(raw []string) ([]map[string]interface{}, error) {
	items := make([]map[string]interface{}, 0, len(raw))
	for _, s := range raw {
		parts := strings.SplitN(s, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid item %q, want recipientID:amount", s)
		}
		id, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid recipient id in %q", s)
		}
		amount, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid amount in %q", s)
		}
		items = append(items, map[string]interface{}{"recipient_id": id, "amount": amount})
	}
	return items, nil
}

func createScheduleCmd() *cobra.Command {
	var name, frequency string
	var payDay int
	var items []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a payroll schedule",
		Long: `Create a draft payroll schedule. Items are repeated recipientID:amount pairs, e.g.
  payrail schedules create --name "Engineering" --frequency weekly --pay-day 5 --item 1:500 --item 2:750`,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseItems(items)
			if err != nil {
				return err
			}

			payload := map[string]interface{}{
				"name":      name,
				"frequency": frequency,
				"pay_day":   payDay,
				"items":     parsed,
			}

			var s models.PaySchedule
			if err := client.Do("POST", "/v1/schedules", payload, &s); err != nil {
				return err
			}

			fmt.Printf("Schedule %d (%s) created, next run %s.\n", s.ID, s.Name, s.NextRunAt.Format("2006-01-02"))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "schedule name")
	cmd.Flags().StringVar(&frequency, "frequency", "weekly", "weekly or monthly")
	cmd.Flags().IntVar(&payDay, "pay-day", 0, "weekday 1-7 for weekly, day 1-31 for monthly")
	cmd.Flags().StringArrayVar(&items, "item", nil, "recipientID:amount, repeatable")

	return cmd
}

func activateScheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activate [id]",
		Short: "Arm a draft schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var s models.PaySchedule
			if err := client.Do("POST", "/v1/schedules/"+args[0]+"/activate", nil, &s); err != nil {
				return err
			}
			fmt.Printf("Schedule %d is %s.\n", s.ID, s.Status)
			return nil
		},
	}
}

func runScheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [id]",
		Short: "Start a schedule run and show the pay lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				Schedule models.PaySchedule `json:"schedule"`
				Items    []models.PayLine   `json:"items"`
			}
			if err := client.Do("POST", "/v1/schedules/"+args[0]+"/run", nil, &out); err != nil {
				return err
			}

			fmt.Printf("Schedule %d is %s.\n", out.Schedule.ID, out.Schedule.Status)
			rows := make([][]interface{}, 0, len(out.Items))
			for _, l := range out.Items {
				rows = append(rows, []interface{}{l.RecipientID, l.Name, l.WalletAddress, l.Amount})
			}
			output.RenderTable([]string{"Recipient", "Name", "Wallet", "Amount"}, rows)
			return nil
		},
	}
}
