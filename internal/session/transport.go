package session

import (
	"bufio"
	"errors"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	maxFrameBytes = 1 << 20
	writeTimeout  = 10 * time.Second
)

// ErrBinaryFrame is returned by the WebSocket transport for non-text frames.
var ErrBinaryFrame = errors.New("binary frames are not supported")

// Transport is a duplex line stream carrying one frame per line.
type Transport interface {
	ReadLine() (string, error)
	WriteLine(line string) error
	Close() error
	RemoteAddr() string
}

// lineTransport frames messages with newlines over a stream connection.
type lineTransport struct {
	conn    net.Conn
	scanner *bufio.Scanner
	wmu     sync.Mutex
}

// NewLineTransport wraps a stream connection such as TCP.
func NewLineTransport(conn net.Conn) Transport {
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), maxFrameBytes)
	return &lineTransport{conn: conn, scanner: scanner}
}

func (t *lineTransport) ReadLine() (string, error) {
	if !t.scanner.Scan() {
		if err := t.scanner.Err(); err != nil {
			return "", err
		}
		return "", net.ErrClosed
	}
	return strings.TrimRight(t.scanner.Text(), "\r"), nil
}

func (t *lineTransport) WriteLine(line string) error {
	t.wmu.Lock()
	defer t.wmu.Unlock()
	_ = t.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	_, err := t.conn.Write([]byte(line + "\n"))
	return err
}

func (t *lineTransport) Close() error       { return t.conn.Close() }
func (t *lineTransport) RemoteAddr() string { return t.conn.RemoteAddr().String() }

// wsTransport carries one frame per WebSocket text message.
type wsTransport struct {
	conn *websocket.Conn
	wmu  sync.Mutex
}

// NewWSTransport wraps an upgraded WebSocket connection.
func NewWSTransport(conn *websocket.Conn) Transport {
	conn.SetReadLimit(maxFrameBytes)
	return &wsTransport{conn: conn}
}

func (t *wsTransport) ReadLine() (string, error) {
	msgType, data, err := t.conn.ReadMessage()
	if err != nil {
		return "", err
	}
	if msgType != websocket.TextMessage {
		return "", ErrBinaryFrame
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func (t *wsTransport) WriteLine(line string) error {
	t.wmu.Lock()
	defer t.wmu.Unlock()
	_ = t.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return t.conn.WriteMessage(websocket.TextMessage, []byte(line))
}

func (t *wsTransport) Close() error       { return t.conn.Close() }
func (t *wsTransport) RemoteAddr() string { return t.conn.RemoteAddr().String() }
