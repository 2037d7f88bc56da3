package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// followPollInterval is how often follow mode rechecks the file for new lines.
const followPollInterval = 200 * time.Millisecond

// TailOptions controls a single Tail call. A negative Offset means "the last
// Limit lines"; otherwise reading starts at Offset and Limit is ignored.
type TailOptions struct {
	Offset int64
	Limit  int
	Follow bool
	Wait   time.Duration
}

// TailResult carries the lines read and the offset to resume from.
type TailResult struct {
	Lines  []string
	Offset int64
}

// Tail reads log lines from path. A missing file is not an error; it yields
// an empty result at offset zero so callers can poll until the daemon starts
// writing. With Follow set and no lines available, Tail polls until new lines
// appear, Wait elapses, or the context is canceled.
func Tail(ctx context.Context, path string, opts TailOptions) (TailResult, error) {
	if opts.Wait < 0 {
		opts.Wait = 0
	}
	result, err := readLines(path, opts.Offset, opts.Limit)
	if err != nil {
		return result, err
	}
	if len(result.Lines) > 0 || !opts.Follow || opts.Wait <= 0 {
		return result, nil
	}

	deadline := time.Now().Add(opts.Wait)
	ticker := time.NewTicker(followPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-ticker.C:
		}
		next, err := readLines(path, result.Offset, opts.Limit)
		if err != nil {
			return result, err
		}
		result = next
		if len(result.Lines) > 0 || time.Now().After(deadline) {
			return result, nil
		}
	}
}

func readLines(path string, offset int64, limit int) (TailResult, error) {
	result := TailResult{Offset: offset}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			result.Offset = 0
			return result, nil
		}
		return result, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return result, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return result, fmt.Errorf("log path %q is a directory", path)
	}
	size := info.Size()

	fromTail := offset < 0
	start := offset
	if start < 0 {
		start = 0
	}
	if start > size {
		// Rotated or truncated underneath us; skip to the current end.
		start = size
	}
	if _, err := file.Seek(start, io.SeekStart); err != nil {
		return result, fmt.Errorf("seek log file: %w", err)
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("read log file: %w", err)
	}

	if fromTail {
		if limit <= 0 {
			lines = nil
		} else if len(lines) > limit {
			lines = lines[len(lines)-limit:]
		}
	}
	result.Lines = lines
	result.Offset = size
	return result, nil
}
