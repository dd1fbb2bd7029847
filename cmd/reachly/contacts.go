package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reachly/reachly/internal/campaign"
)

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Manage the contact directory",
}

var contactsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List contacts with their derived status",
	RunE:  runContactsList,
}

var (
	addFirstName string
	addLastName  string
	addEmail     string
	addCompany   string
	addJobTitle  string
	addCity      string
	addState     string
)

var contactsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a single contact",
	RunE:  runContactsAdd,
}

var contactsImportCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import contacts from a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE:  runContactsImport,
}

func init() {
	contactsAddCmd.Flags().StringVar(&addFirstName, "first-name", "", "first name")
	contactsAddCmd.Flags().StringVar(&addLastName, "last-name", "", "last name")
	contactsAddCmd.Flags().StringVar(&addEmail, "email", "", "email address")
	contactsAddCmd.Flags().StringVar(&addCompany, "company", "", "company")
	contactsAddCmd.Flags().StringVar(&addJobTitle, "title", "", "job title")
	contactsAddCmd.Flags().StringVar(&addCity, "city", "", "city")
	contactsAddCmd.Flags().StringVar(&addState, "state", "", "state")

	contactsCmd.AddCommand(contactsListCmd, contactsAddCmd, contactsImportCmd)
}

func runContactsList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	views, err := a.controller.Reconciled(cmd.Context())
	if err != nil {
		return err
	}

	if len(views) == 0 {
		fmt.Println("No contacts.")
		return nil
	}

	fmt.Printf("%-10s %-30s %-25s %s\n", "STATUS", "EMAIL", "NAME", "COMPANY")
	for _, v := range views {
		fmt.Printf("%-10s %-30s %-25s %s\n", v.Status, v.Email, v.FullName(), v.Company)
	}
	return nil
}

func runContactsAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	contact := &campaign.Contact{
		FirstName: addFirstName,
		LastName:  addLastName,
		Email:     addEmail,
		Company:   addCompany,
		JobTitle:  addJobTitle,
		City:      addCity,
		State:     addState,
	}
	if err := a.store.Add(contact); err != nil {
		return err
	}

	fmt.Printf("Added contact %s (%s)\n", contact.FullName(), contact.Email)
	return nil
}

func runContactsImport(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	result, err := a.store.ImportCSV(f)
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d of %d contacts (%d skipped)\n", result.Imported, result.Total, result.Skipped)
	for _, e := range result.Errors {
		fmt.Printf("  %s\n", e)
	}
	return nil
}
