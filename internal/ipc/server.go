package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"
	"time"

	"log/slog"

	"autocast/internal/api"
	"autocast/internal/autopilot"
	"autocast/internal/daemon"
	"autocast/internal/logging"
	"autocast/internal/logs"
	"autocast/internal/uploads"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path. The shutdown
// callback, when non-nil, is invoked after a StopDaemon request so the daemon
// process can exit its run loop.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger, shutdown func()) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logging.NewComponentLogger(logger, "ipc"), ctx: ctx, shutdown: shutdown}
	if err := rpcServer.RegisterName("Autocast", srv); err != nil {
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("ipc server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("ipc accept failed",
					logging.Error(err),
					logging.String("socket", s.path))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err))
	}
}

type service struct {
	daemon   *daemon.Daemon
	logger   *slog.Logger
	ctx      context.Context
	shutdown func()
}

func (s *service) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return s.logger
}

func (s *service) Ping(_ PingRequest, resp *PingResponse) error {
	resp.Message = "pong"
	resp.PID = os.Getpid()
	return nil
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status(s.ctx)
	resp.Running = status.Running
	resp.PID = status.PID
	resp.LockPath = status.LockFilePath
	resp.Channel = api.FromChannelInfo(status.Channel)
	resp.Scheduler = api.FromSchedulerSnapshot(status.Scheduler)
	resp.UploadStats = api.MergeUploadStats(status.UploadStats)
	resp.StageHealth = api.StageHealthSlice(status.StageHealth)
	return nil
}

func (s *service) ChannelConnect(req ChannelConnectRequest, resp *ChannelConnectResponse) error {
	s.log().Debug("channel connect requested")
	info, err := s.daemon.ConnectChannel(s.ctx, req.Credential)
	if err != nil {
		return err
	}
	resp.Channel = api.FromChannelInfo(info)
	s.log().Info("channel linked via ipc", logging.String("channel", info.ChannelName))
	return nil
}

func (s *service) ChannelDisconnect(_ ChannelDisconnectRequest, resp *ChannelDisconnectResponse) error {
	s.log().Debug("channel disconnect requested")
	s.daemon.DisconnectChannel()
	resp.Channel = api.FromChannelInfo(s.daemon.ChannelInfo())
	return nil
}

func (s *service) AutoSet(req AutoSetRequest, resp *AutoSetResponse) error {
	s.log().Debug("auto mode change requested", logging.Bool("active", req.Active))
	s.daemon.SetAutoActive(s.ctx, req.Active)
	resp.Scheduler = api.FromSchedulerSnapshot(s.daemon.SchedulerSnapshot())
	return nil
}

func (s *service) TriggerRun(_ TriggerRunRequest, resp *TriggerRunResponse) error {
	s.log().Debug("manual run requested")
	outcome, err := s.daemon.TriggerRun(s.ctx)
	if err != nil {
		return err
	}
	resp.Started = outcome.Started()
	resp.Outcome = outcome.String()
	resp.Message = triggerMessage(outcome)
	return nil
}

func triggerMessage(outcome autopilot.TriggerOutcome) string {
	switch outcome {
	case autopilot.TriggerStarted:
		return "upload run started"
	case autopilot.TriggerSkippedBusy:
		return "an upload run is already in flight"
	case autopilot.TriggerSkippedDisconnected:
		return "channel is not linked"
	case autopilot.TriggerSkippedStopped:
		return "scheduler is not running"
	default:
		return ""
	}
}

func (s *service) UploadsList(req UploadsListRequest, resp *UploadsListResponse) error {
	statuses := make([]uploads.Status, 0, len(req.Statuses))
	for _, raw := range req.Statuses {
		parsed, err := uploads.ParseStatus(raw)
		if err != nil {
			continue
		}
		statuses = append(statuses, parsed)
	}
	records, err := s.daemon.ListUploads(s.ctx, statuses)
	if err != nil {
		return err
	}
	resp.Records = api.FromRecords(records)
	return nil
}

func (s *service) UploadsShow(req UploadsShowRequest, resp *UploadsShowResponse) error {
	if req.ID <= 0 {
		return fmt.Errorf("invalid upload id %d", req.ID)
	}
	record, err := s.daemon.GetUpload(s.ctx, req.ID)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("upload %d not found", req.ID)
	}
	resp.Record = api.FromRecord(record)
	return nil
}

func (s *service) UploadsHealth(_ UploadsHealthRequest, resp *UploadsHealthResponse) error {
	health, err := s.daemon.UploadsHealth(s.ctx)
	if err != nil {
		return err
	}
	resp.Total = health.Total
	resp.Pending = health.Pending
	resp.Processing = health.Processing
	resp.Uploaded = health.Uploaded
	resp.Failed = health.Failed
	return nil
}

func (s *service) UploadsPrune(req UploadsPruneRequest, resp *UploadsPruneResponse) error {
	s.log().Debug("uploads prune requested", logging.Int("keep", req.Keep))
	removed, err := s.daemon.PruneHistory(s.ctx, req.Keep)
	if err != nil {
		return err
	}
	resp.Removed = removed
	s.log().Info("upload history pruned", logging.Int64("removed_count", removed))
	return nil
}

func (s *service) UploadsClear(_ UploadsClearRequest, resp *UploadsClearResponse) error {
	s.log().Debug("uploads clear requested")
	removed, err := s.daemon.ClearUploads(s.ctx)
	if err != nil {
		return err
	}
	resp.Removed = removed
	s.log().Info("upload records cleared", logging.Int64("removed_count", removed))
	return nil
}

func (s *service) LogTail(req LogTailRequest, resp *LogTailResponse) error {
	logPath := s.daemon.LogPath()
	if logPath == "" {
		resp.Offset = 0
		return nil
	}
	wait := time.Duration(req.WaitMillis) * time.Millisecond
	if wait <= 0 && req.Follow {
		wait = time.Second
	}
	options := logs.TailOptions{
		Offset: req.Offset,
		Limit:  req.Limit,
		Follow: req.Follow,
		Wait:   wait,
	}
	ctx := s.ctx
	if req.Follow && wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(s.ctx, wait+500*time.Millisecond)
		defer cancel()
	}
	result, err := logs.Tail(ctx, logPath, options)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			resp.Offset = result.Offset
			return nil
		}
		return err
	}
	resp.Lines = result.Lines
	resp.Offset = result.Offset
	return nil
}

func (s *service) StopDaemon(_ StopDaemonRequest, resp *StopDaemonResponse) error {
	s.log().Debug("daemon stop requested")
	s.daemon.Stop()
	resp.Stopped = true
	s.log().Info("daemon stopped via ipc")
	if s.shutdown != nil {
		s.shutdown()
	}
	return nil
}
