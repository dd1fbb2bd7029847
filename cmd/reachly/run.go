package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/reachly/reachly/internal/activitylog"
	"github.com/reachly/reachly/internal/campaign"
)

var (
	runSend     bool
	runLimit    int
	runTo       string
	runForce    bool
	runMinDelay int
	runMaxDelay int
	runYes      bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the outreach campaign",
	Long: `Run drives one campaign invocation. The default dry run generates drafts
without contacting the mail provider; --send delivers for real with a
randomized delay between consecutive sends.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runSend, "send", false, "actually send emails (default is a dry run)")
	runCmd.Flags().IntVarP(&runLimit, "limit", "n", 0, "max contacts to process (0 = all eligible)")
	runCmd.Flags().StringVar(&runTo, "to", "", "process a single contact by email")
	runCmd.Flags().BoolVar(&runForce, "force", false, "allow re-sending to an already-sent contact (requires --to)")
	runCmd.Flags().IntVar(&runMinDelay, "min-delay", 0, "min seconds between sends (overrides config)")
	runCmd.Flags().IntVar(&runMaxDelay, "max-delay", 0, "max seconds between sends (overrides config)")
	runCmd.Flags().BoolVarP(&runYes, "yes", "y", false, "skip the send confirmation prompt")
}

func runRun(cmd *cobra.Command, args []string) error {
	if runForce && runTo == "" {
		return fmt.Errorf("--force requires --to")
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	mode := campaign.ModeDryRun
	if runSend {
		mode = campaign.ModeSend
		if !runYes && !confirm("This will send REAL emails. Continue?") {
			fmt.Println("Aborted.")
			return nil
		}
	}

	req := campaign.RunRequest{
		Mode: mode,
		Scope: campaign.Scope{
			Email: runTo,
			Limit: runLimit,
			Force: runForce,
		},
		MinDelay: a.cfg.Sending.MinDelay,
		MaxDelay: a.cfg.Sending.MaxDelay,
	}
	if runLimit == 0 && runTo == "" {
		req.Scope.Limit = a.cfg.Sending.Limit
	}
	if runMinDelay > 0 {
		req.MinDelay = time.Duration(runMinDelay) * time.Second
	}
	if runMaxDelay > 0 {
		req.MaxDelay = time.Duration(runMaxDelay) * time.Second
	}

	// Ctrl-C cancels cooperatively at the next contact boundary.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := a.controller.Run(ctx, req)
	if result != nil {
		printResult(result, mode)
	}
	return err
}

func printResult(result *campaign.RunResult, mode campaign.Mode) {
	if result.Attempted == 0 {
		fmt.Println("No contacts to process.")
		return
	}

	for _, r := range result.Results {
		switch r.Outcome {
		case activitylog.OutcomeSent:
			fmt.Printf("  sent     %s  %q\n", r.Email, r.Subject)
		case activitylog.OutcomeDrafted:
			fmt.Printf("  drafted  %s  %q\n", r.Email, r.Subject)
		default:
			fmt.Printf("  error    %s  %s\n", r.Email, r.Error)
		}
	}

	verb := "drafted"
	if mode == campaign.ModeSend {
		verb = "sent"
	}
	fmt.Printf("\n%s: attempted %d, %s %d, failed %d\n",
		strings.ToLower(string(result.Status)), result.Attempted, verb, result.Succeeded, result.Failed)
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
