package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"autocast/internal/ipc"
)

func newUploadsCommand(ctx *commandContext) *cobra.Command {
	uploadsCmd := &cobra.Command{
		Use:   "uploads",
		Short: "Inspect and manage upload history",
	}

	uploadsCmd.AddCommand(newUploadsListCommand(ctx))
	uploadsCmd.AddCommand(newUploadsShowCommand(ctx))
	uploadsCmd.AddCommand(newUploadsHealthCommand(ctx))
	uploadsCmd.AddCommand(newUploadsPruneCommand(ctx))
	uploadsCmd.AddCommand(newUploadsClearCommand(ctx))

	return uploadsCmd
}

func newUploadsListCommand(ctx *commandContext) *cobra.Command {
	var listStatuses []string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List upload records, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.UploadsList(listStatuses)
				if err != nil {
					return err
				}
				if asJSON {
					records := resp.Records
					if records == nil {
						records = []ipc.UploadRecord{}
					}
					return writeJSON(cmd, records)
				}
				if len(resp.Records) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No uploads recorded")
					return nil
				}
				table := renderTable(
					[]string{"ID", "Title", "Status", "Stage", "Format", "Created"},
					buildUploadListRows(resp.Records),
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
				)
				fmt.Fprint(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&listStatuses, "status", "s", nil, "Filter by record status (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newUploadsShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <uploadID>",
		Short: "Show one upload record in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid upload id %q", args[0])
			}

			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.UploadsShow(id)
				if err != nil {
					if strings.Contains(strings.ToLower(err.Error()), "not found") {
						if asJSON {
							return writeJSON(cmd, map[string]any{"error": "not_found"})
						}
						fmt.Fprintf(cmd.OutOrStdout(), "Upload %d not found\n", id)
						return nil
					}
					return err
				}
				if asJSON {
					return writeJSON(cmd, resp.Record)
				}
				printUploadDetail(cmd.OutOrStdout(), resp.Record)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newUploadsHealthCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Show upload history counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				health, err := client.UploadsHealth()
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, health)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Total: %d\nPending: %d\nProcessing: %d\nUploaded: %d\nFailed: %d\n",
					health.Total,
					health.Pending,
					health.Processing,
					health.Uploaded,
					health.Failed,
				)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newUploadsPruneCommand(ctx *commandContext) *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove finished uploads beyond the newest N",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if keep <= 0 {
				if cfg := ctx.configValue(); cfg != nil {
					keep = cfg.Autopilot.RetentionLimit
				}
			}
			if keep <= 0 {
				fmt.Fprintln(out, "Retention is unbounded; pass --keep to prune")
				return nil
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.UploadsPrune(keep)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Pruned %d uploads (kept newest %d)\n", resp.Removed, keep)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&keep, "keep", 0, "Newest finished uploads to keep (defaults to autopilot.retention_limit)")
	return cmd
}

func newUploadsClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all upload records",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.UploadsClear()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d uploads\n", resp.Removed)
				return nil
			})
		},
	}
}
