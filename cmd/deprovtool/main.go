// Package main provides deprovtool, a CLI that turns spreadsheet exports of
// a Microsoft 365 tenant into a deprovisioning checklist for one account.
//
// The tool never contacts the tenant. It reads up to five exports (directory,
// shared-mailbox membership, group membership, mailbox inventory and group
// ownership), correlates them on the account's principal name and prints the
// checklist followed by the advisory warnings.
//
// Every run appends one row to an audit log in the system temp directory.
//
// Example usage:
//
//	deprovtool generate --upn a.b.ext@example.com --ticket TT123 \
//	    --directory users.xlsx --group-members groups.csv
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

const toolName = "deprovtool"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupSignalHandling returns a context cancelled on Ctrl+C or SIGTERM.
func setupSignalHandling() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\nReceived interrupt signal. Shutting down...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

func run() error {
	ctx, cancel := setupSignalHandling()
	defer cancel()

	return newRootCommand().ExecuteContext(ctx)
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   toolName,
		Short: "Generate deprovisioning checklists from tenant spreadsheet exports",
		Long: `deprovtool cross-references offline exports of a Microsoft 365 tenant
(.xlsx or .csv) and produces the deprovisioning checklist for one account,
together with warnings about groups and shared mailboxes that would be left
without an owner or user.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newGenerateCommand())
	root.AddCommand(newColumnsCommand())
	root.AddCommand(newVersionCommand())

	return root
}
