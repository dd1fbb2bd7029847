package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/reachly/reachly/internal/campaign"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the activity log",
	RunE:  runLog,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarize campaign progress",
	RunE:  runStatus,
}

func runLog(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	entries, err := a.log.ReadAll(cmd.Context())
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("Activity log is empty.")
		return nil
	}

	fmt.Printf("%-20s %-8s %-30s %s\n", "TIMESTAMP", "OUTCOME", "EMAIL", "SUBJECT")
	for _, e := range entries {
		detail := e.Subject
		if e.Error != "" {
			detail = e.Error
		}
		fmt.Printf("%-20s %-8s %-30s %s\n", e.Timestamp.Format(time.DateTime), e.Outcome, e.Email, detail)
	}
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	views, err := a.controller.Reconciled(cmd.Context())
	if err != nil {
		return err
	}

	counts := map[campaign.Status]int{}
	for _, v := range views {
		counts[v.Status]++
	}

	fmt.Printf("Contacts: %d\n", len(views))
	for _, status := range []campaign.Status{
		campaign.StatusPending,
		campaign.StatusDrafted,
		campaign.StatusSent,
		campaign.StatusErrored,
		campaign.StatusNoEmail,
	} {
		if counts[status] > 0 {
			fmt.Printf("  %-9s %d\n", status, counts[status])
		}
	}
	return nil
}
