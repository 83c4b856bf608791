package stream

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang/snappy"
	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/pub"

	// Register all transports
	_ "go.nanomsg.org/mangos/v3/transport/all"

	"github.com/signalvc/relgraph/pkg/layout"
	"github.com/signalvc/relgraph/pkg/logging"
)

// ErrShutdown is returned when using a broker or bridge after shutdown.
var ErrShutdown = errors.New("stream is shut down")

// frameTopic prefixes bridged frame messages so subscribers can filter on
// the raw socket.
var frameTopic = []byte("frames|")

// Bridge publishes layout frames on a PUB socket as snappy-compressed JSON,
// feeding presentation adapters running in other processes.
type Bridge struct {
	sock   mangos.Socket
	logger logging.Logger
}

// NewBridge opens a PUB socket listening at addr, e.g. tcp://127.0.0.1:7780
// or ipc:///tmp/relgraph.sock.
func NewBridge(addr string, logger logging.Logger) (*Bridge, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	sock, err := pub.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("create pub socket: %w", err)
	}
	if err := sock.Listen(addr); err != nil {
		sock.Close()
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	logger.Info("frame bridge listening", logging.String("addr", addr))
	return &Bridge{sock: sock, logger: logger}, nil
}

// PublishFrame serializes and sends one frame. Send errors are logged and
// swallowed so a dead peer cannot stall the simulation loop.
func (b *Bridge) PublishFrame(f layout.Frame) {
	msg, err := encodeFrame(f)
	if err != nil {
		b.logger.Error("encode frame", logging.Error(err), logging.Ticks(f.Tick))
		return
	}
	if err := b.sock.Send(msg); err != nil {
		b.logger.Error("send frame", logging.Error(err), logging.Ticks(f.Tick))
	}
}

// encodeFrame builds the wire message: topic prefix + snappy-compressed JSON.
func encodeFrame(f layout.Frame) ([]byte, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	return append(append([]byte{}, frameTopic...), snappy.Encode(nil, data)...), nil
}

// DecodeFrame reverses PublishFrame for a received bridge message.
func DecodeFrame(msg []byte) (layout.Frame, error) {
	if len(msg) < len(frameTopic) || string(msg[:len(frameTopic)]) != string(frameTopic) {
		return layout.Frame{}, fmt.Errorf("message missing frame topic prefix")
	}
	data, err := snappy.Decode(nil, msg[len(frameTopic):])
	if err != nil {
		return layout.Frame{}, fmt.Errorf("decompress frame: %w", err)
	}
	var f layout.Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return layout.Frame{}, fmt.Errorf("decode frame: %w", err)
	}
	return f, nil
}

// Close shuts the socket down.
func (b *Bridge) Close() error {
	return b.sock.Close()
}
