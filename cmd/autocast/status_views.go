package main

import (
	"fmt"
	"strings"

	"autocast/internal/channel"
	"autocast/internal/ipc"
	"autocast/internal/uploads"
)

func systemStatusLines(status *ipc.StatusResponse, colorize bool) []string {
	if status == nil {
		return nil
	}

	lines := make([]string, 0, 6)
	if status.Running {
		lines = append(lines, renderStatusLine("Daemon", statusOK, fmt.Sprintf("Running (pid %d)", status.PID), colorize))
	} else {
		lines = append(lines, renderStatusLine("Daemon", statusError, "Not running", colorize))
	}
	if path := strings.TrimSpace(status.LockPath); path != "" {
		lines = append(lines, renderStatusLine("Lock File", statusInfo, path, colorize))
	}
	lines = append(lines, channelStatusLine(status.Channel, colorize))
	lines = append(lines, schedulerStatusLines(status.Scheduler, colorize)...)
	return lines
}

func channelStatusLine(ch ipc.ChannelStatus, colorize bool) string {
	switch channel.State(ch.State) {
	case channel.StateConnected:
		detail := strings.TrimSpace(ch.ChannelName)
		if handle := strings.TrimSpace(ch.Handle); handle != "" {
			detail = fmt.Sprintf("%s (%s)", detail, handle)
		}
		if detail == "" {
			detail = "Linked"
		} else {
			detail = "Linked to " + detail
		}
		return renderStatusLine("Channel", statusOK, detail, colorize)
	case channel.StateConnecting:
		return renderStatusLine("Channel", statusWarn, "Linking...", colorize)
	default:
		return renderStatusLine("Channel", statusInfo, "Not linked", colorize)
	}
}

func schedulerStatusLines(sched ipc.SchedulerStatus, colorize bool) []string {
	lines := make([]string, 0, 3)

	if sched.AutoActive {
		detail := fmt.Sprintf("Armed (next upload in %ds)", sched.Countdown)
		lines = append(lines, renderStatusLine("Auto Mode", statusOK, detail, colorize))
	} else {
		lines = append(lines, renderStatusLine("Auto Mode", statusInfo, "Disarmed", colorize))
	}

	if sched.Busy {
		lines = append(lines, renderStatusLine("Pipeline", statusWarn, "Upload in flight", colorize))
	} else {
		lines = append(lines, renderStatusLine("Pipeline", statusInfo, "Idle", colorize))
	}

	if last := sched.LastRun; last != nil {
		lines = append(lines, lastRunLine(last, colorize))
	}
	return lines
}

func lastRunLine(last *ipc.RunOutcome, colorize bool) string {
	kind := statusInfo
	switch uploads.Status(last.Status) {
	case uploads.StatusUploaded:
		kind = statusOK
	case uploads.StatusFailed:
		kind = statusError
	}

	detail := fmt.Sprintf("#%d %s", last.RecordID, formatStatusLabel(last.Status))
	if title := strings.TrimSpace(last.Title); title != "" {
		detail = fmt.Sprintf("#%d %q %s", last.RecordID, title, formatStatusLabel(last.Status))
	}
	if when := formatDisplayTime(last.FinishedAt); when != "" {
		detail += " at " + when
	}
	if message := strings.TrimSpace(last.Message); message != "" && uploads.Status(last.Status) == uploads.StatusFailed {
		detail += ": " + message
	}
	return renderStatusLine("Last Run", kind, detail, colorize)
}

func stageHealthLines(stages []ipc.StageHealth, colorize bool) []string {
	lines := make([]string, 0, len(stages))
	for _, st := range stages {
		label := formatStatusLabel(st.Name)
		detail := strings.TrimSpace(st.Detail)
		if st.Ready {
			if detail == "" {
				detail = "Ready"
			}
			lines = append(lines, renderStatusLine(label, statusOK, detail, colorize))
			continue
		}
		if detail == "" {
			detail = "not ready"
		}
		lines = append(lines, renderStatusLine(label, statusWarn, detail, colorize))
	}
	return lines
}
