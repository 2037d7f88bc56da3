package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"autocast/internal/ipc"
)

func newAutoCommand(ctx *commandContext) *cobra.Command {
	autoCmd := &cobra.Command{
		Use:   "auto",
		Short: "Toggle scheduled uploads",
	}

	autoCmd.AddCommand(&cobra.Command{
		Use:   "on",
		Short: "Arm the periodic upload schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.AutoSet(true)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Auto mode on (next upload in %ds)\n", resp.Scheduler.Countdown)
				return nil
			})
		},
	})

	autoCmd.AddCommand(&cobra.Command{
		Use:   "off",
		Short: "Disarm the periodic upload schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.AutoSet(false); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Auto mode off")
				return nil
			})
		},
	})

	return autoCmd
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Trigger a single upload run",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.TriggerRun()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if resp.Started {
					fmt.Fprintln(out, "Upload run started")
					return nil
				}
				fmt.Fprintf(out, "Upload run skipped: %s\n", resp.Message)
				return nil
			})
		},
	}
}
