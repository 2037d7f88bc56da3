package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Ping checks daemon liveness.
func (c *Client) Ping() (*PingResponse, error) {
	var resp PingResponse
	if err := c.client.Call("Autocast.Ping", PingRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Autocast.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ChannelConnect links the channel using the given credential, or the
// configured default when empty.
func (c *Client) ChannelConnect(credential string) (*ChannelConnectResponse, error) {
	var resp ChannelConnectResponse
	req := ChannelConnectRequest{Credential: credential}
	if err := c.client.Call("Autocast.ChannelConnect", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ChannelDisconnect unlinks the channel.
func (c *Client) ChannelDisconnect() (*ChannelDisconnectResponse, error) {
	var resp ChannelDisconnectResponse
	if err := c.client.Call("Autocast.ChannelDisconnect", ChannelDisconnectRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AutoSet arms or disarms the periodic schedule.
func (c *Client) AutoSet(active bool) (*AutoSetResponse, error) {
	var resp AutoSetResponse
	req := AutoSetRequest{Active: active}
	if err := c.client.Call("Autocast.AutoSet", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TriggerRun requests a manual pipeline run.
func (c *Client) TriggerRun() (*TriggerRunResponse, error) {
	var resp TriggerRunResponse
	if err := c.client.Call("Autocast.TriggerRun", TriggerRunRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UploadsList returns upload records optionally filtered by statuses.
func (c *Client) UploadsList(statuses []string) (*UploadsListResponse, error) {
	var resp UploadsListResponse
	req := UploadsListRequest{Statuses: statuses}
	if err := c.client.Call("Autocast.UploadsList", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UploadsShow returns details for a single upload record.
func (c *Client) UploadsShow(id int64) (*UploadsShowResponse, error) {
	var resp UploadsShowResponse
	req := UploadsShowRequest{ID: id}
	if err := c.client.Call("Autocast.UploadsShow", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UploadsHealth returns aggregate record counts.
func (c *Client) UploadsHealth() (*UploadsHealthResponse, error) {
	var resp UploadsHealthResponse
	if err := c.client.Call("Autocast.UploadsHealth", UploadsHealthRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UploadsPrune trims terminal records beyond the newest keep entries.
func (c *Client) UploadsPrune(keep int) (*UploadsPruneResponse, error) {
	var resp UploadsPruneResponse
	req := UploadsPruneRequest{Keep: keep}
	if err := c.client.Call("Autocast.UploadsPrune", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UploadsClear removes all upload records.
func (c *Client) UploadsClear() (*UploadsClearResponse, error) {
	var resp UploadsClearResponse
	if err := c.client.Call("Autocast.UploadsClear", UploadsClearRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LogTail returns log lines from the daemon.
func (c *Client) LogTail(req LogTailRequest) (*LogTailResponse, error) {
	var resp LogTailResponse
	if err := c.client.Call("Autocast.LogTail", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StopDaemon asks the daemon process to shut down.
func (c *Client) StopDaemon() (*StopDaemonResponse, error) {
	var resp StopDaemonResponse
	if err := c.client.Call("Autocast.StopDaemon", StopDaemonRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
