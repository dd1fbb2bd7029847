package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/reachly/reachly/internal/deliver"
)

var (
	dkimDomain   string
	dkimSelector string
	dkimKeyFile  string
	dkimOutDir   string
)

var dkimCmd = &cobra.Command{
	Use:   "dkim",
	Short: "DKIM key management",
}

var dkimGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a DKIM key pair and print its DNS record",
	RunE:  runDKIMGenerate,
}

var dkimShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the DNS record for an existing DKIM key",
	RunE:  runDKIMShow,
}

func init() {
	dkimGenerateCmd.Flags().StringVar(&dkimDomain, "domain", "", "domain name (required)")
	dkimGenerateCmd.Flags().StringVar(&dkimSelector, "selector", "reachly", "DKIM selector")
	dkimGenerateCmd.Flags().StringVar(&dkimOutDir, "out", ".", "output directory for the key file")
	dkimGenerateCmd.MarkFlagRequired("domain")

	dkimShowCmd.Flags().StringVar(&dkimKeyFile, "key", "", "path to the private key file (required)")
	dkimShowCmd.Flags().StringVar(&dkimDomain, "domain", "", "domain name (required)")
	dkimShowCmd.Flags().StringVar(&dkimSelector, "selector", "reachly", "DKIM selector")
	dkimShowCmd.MarkFlagRequired("key")
	dkimShowCmd.MarkFlagRequired("domain")

	dkimCmd.AddCommand(dkimGenerateCmd, dkimShowCmd)
}

func runDKIMGenerate(cmd *cobra.Command, args []string) error {
	key, err := deliver.GenerateDKIMKey(dkimDomain, dkimSelector)
	if err != nil {
		return err
	}

	keyPath := filepath.Join(dkimOutDir, fmt.Sprintf("%s.key", dkimDomain))
	if err := key.Save(keyPath); err != nil {
		return err
	}

	fmt.Printf("DKIM key generated\n\n")
	fmt.Printf("Private key saved to: %s\n\n", keyPath)
	printDNSRecord(key)
	return nil
}

func runDKIMShow(cmd *cobra.Command, args []string) error {
	key, err := deliver.LoadDKIMKey(dkimKeyFile, dkimDomain, dkimSelector)
	if err != nil {
		return err
	}
	printDNSRecord(key)
	return nil
}

func printDNSRecord(key *deliver.DKIMKey) {
	fmt.Printf("DNS Record:\n")
	fmt.Printf("  Name:  %s\n", key.DNSName())
	fmt.Printf("  Type:  TXT\n")
	fmt.Printf("  Value: %s\n", key.DNSRecord())
}
