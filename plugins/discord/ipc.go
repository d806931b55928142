package main

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"time"

	"studylog/internal/platform/id"
)

const (
	opHandshake uint32 = 0
	opFrame     uint32 = 1
	opClose     uint32 = 2

	maxFrameSize = 64 * 1024
	ioTimeout    = 5 * time.Second
)

var errIPCClosed = errors.New("discord closed the ipc connection")

type timestamps struct {
	Start int64 `json:"start,omitempty"`
}

type assets struct {
	LargeImage string `json:"large_image,omitempty"`
	LargeText  string `json:"large_text,omitempty"`
}

type activity struct {
	Details    string     `json:"details,omitempty"`
	State      string     `json:"state,omitempty"`
	Timestamps timestamps `json:"timestamps"`
	Assets     assets     `json:"assets"`
}

type activityArgs struct {
	PID      int       `json:"pid"`
	Activity *activity `json:"activity"`
}

type command struct {
	Cmd   string       `json:"cmd"`
	Args  activityArgs `json:"args"`
	Nonce string       `json:"nonce"`
}

type response struct {
	Cmd  string `json:"cmd"`
	Evt  string `json:"evt"`
	Data struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"data"`
}

// socketCandidates lists the local IPC endpoints the Discord client may
// listen on, in probe order.
func socketCandidates() []string {
	if path := os.Getenv("DISCORD_IPC_PATH"); path != "" {
		return []string{path}
	}
	base := "/tmp"
	for _, key := range []string{"XDG_RUNTIME_DIR", "TMPDIR", "TMP", "TEMP"} {
		if value := os.Getenv(key); value != "" {
			base = value
			break
		}
	}
	out := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		out = append(out, filepath.Join(base, fmt.Sprintf("discord-ipc-%d", i)))
	}
	return out
}

type ipcClient struct {
	conn   net.Conn
	pid    int
	nonces id.Generator
}

func dialIPC(ctx context.Context, clientID string) (*ipcClient, error) {
	var dialer net.Dialer
	var lastErr error
	for _, path := range socketCandidates() {
		conn, err := dialer.DialContext(ctx, "unix", path)
		if err != nil {
			lastErr = err
			continue
		}
		client := &ipcClient{conn: conn, pid: os.Getpid(), nonces: id.UUID{}}
		if err := client.handshake(ctx, clientID); err != nil {
			_ = conn.Close()
			lastErr = err
			continue
		}
		return client, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no socket candidates")
	}
	return nil, fmt.Errorf("discord ipc unavailable: %w", lastErr)
}

func (c *ipcClient) handshake(ctx context.Context, clientID string) error {
	payload, err := json.Marshal(map[string]any{"v": 1, "client_id": clientID})
	if err != nil {
		return err
	}
	_, err = c.roundTrip(ctx, opHandshake, payload)
	return err
}

// SetActivity replaces the shown activity. A nil activity clears it.
func (c *ipcClient) SetActivity(ctx context.Context, act *activity) error {
	payload, err := json.Marshal(command{
		Cmd:   "SET_ACTIVITY",
		Args:  activityArgs{PID: c.pid, Activity: act},
		Nonce: c.nonces.New(),
	})
	if err != nil {
		return err
	}
	_, err = c.roundTrip(ctx, opFrame, payload)
	return err
}

func (c *ipcClient) Close() error {
	_ = writeFrame(c.conn, opClose, []byte("{}"))
	return c.conn.Close()
}

func (c *ipcClient) roundTrip(ctx context.Context, op uint32, payload []byte) (response, error) {
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(ioTimeout)
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		return response{}, err
	}
	if err := writeFrame(c.conn, op, payload); err != nil {
		return response{}, err
	}
	replyOp, body, err := readFrame(c.conn)
	if err != nil {
		return response{}, err
	}
	var reply response
	if err := json.Unmarshal(body, &reply); err != nil {
		return response{}, fmt.Errorf("decode discord reply: %w", err)
	}
	if replyOp == opClose {
		return reply, fmt.Errorf("%w: %s", errIPCClosed, reply.Data.Message)
	}
	if reply.Evt == "ERROR" {
		return reply, fmt.Errorf("discord error %d: %s", reply.Data.Code, reply.Data.Message)
	}
	return reply, nil
}

func writeFrame(w io.Writer, op uint32, payload []byte) error {
	frame := make([]byte, 8+len(payload))
	binary.LittleEndian.PutUint32(frame[0:4], op)
	binary.LittleEndian.PutUint32(frame[4:8], uint32(len(payload)))
	copy(frame[8:], payload)
	_, err := w.Write(frame)
	return err
}

func readFrame(r io.Reader) (uint32, []byte, error) {
	var header [8]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return 0, nil, err
	}
	op := binary.LittleEndian.Uint32(header[0:4])
	size := binary.LittleEndian.Uint32(header[4:8])
	if size > maxFrameSize {
		return 0, nil, fmt.Errorf("discord frame too large: %d bytes", size)
	}
	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		return 0, nil, err
	}
	return op, body, nil
}
