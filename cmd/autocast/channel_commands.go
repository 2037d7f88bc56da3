package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"autocast/internal/channel"
	"autocast/internal/ipc"
)

func newChannelCommand(ctx *commandContext) *cobra.Command {
	channelCmd := &cobra.Command{
		Use:   "channel",
		Short: "Manage the publishing channel link",
	}

	channelCmd.AddCommand(newChannelConnectCommand(ctx))
	channelCmd.AddCommand(newChannelDisconnectCommand(ctx))
	channelCmd.AddCommand(newChannelShowCommand(ctx))

	return channelCmd
}

func newChannelConnectCommand(ctx *commandContext) *cobra.Command {
	var credential string

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Link the publishing channel",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ChannelConnect(strings.TrimSpace(credential))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Channel linked to %s\n", describeChannel(resp.Channel))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&credential, "credential", "", "Credential to link with (defaults to channel.default_credential)")
	return cmd
}

func newChannelDisconnectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Unlink the publishing channel",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.ChannelDisconnect(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Channel disconnected")
				return nil
			})
		},
	}
}

func newChannelShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show channel link details",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				status, err := client.Status()
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, status.Channel)
				}

				out := cmd.OutOrStdout()
				ch := status.Channel
				fmt.Fprintf(out, "State: %s\n", formatStatusLabel(ch.State))
				if channel.State(ch.State) != channel.StateConnected {
					return nil
				}
				fmt.Fprintf(out, "Channel: %s\n", ch.ChannelName)
				fmt.Fprintf(out, "Handle: %s\n", ch.Handle)
				fmt.Fprintf(out, "Credential: %s\n", ch.Credential)
				if linked := formatDisplayTime(ch.LinkedAt); linked != "" {
					fmt.Fprintf(out, "Linked at: %s\n", linked)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func describeChannel(ch ipc.ChannelStatus) string {
	name := strings.TrimSpace(ch.ChannelName)
	if handle := strings.TrimSpace(ch.Handle); handle != "" {
		if name == "" {
			return handle
		}
		return fmt.Sprintf("%s (%s)", name, handle)
	}
	if name == "" {
		return "channel"
	}
	return name
}
