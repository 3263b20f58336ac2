package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jacktracker/jacktracker/internal/app"
	"github.com/jacktracker/jacktracker/internal/events"
	"github.com/jacktracker/jacktracker/internal/infra/logger"
	"github.com/labstack/echo/v5"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024

	requestDownload = "request-download"
)

var (
	errSendBufferFull = errors.New("send buffer full")
	errClientClosed   = errors.New("client closed")
)

// WSController upgrades observers to websockets and registers them with
// the event hub for the lifetime of the connection.
type WSController struct {
	App      *app.Context
	upgrader websocket.Upgrader
	logger   *logger.Logger
}

func NewWSController(app *app.Context) *WSController {
	allowed := app.Config.Server.AllowedOrigins
	return &WSController{
		App: app,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowed, "*") || slices.Contains(allowed, origin)
			},
		},
		logger: app.Logger.WithPrefix("ws"),
	}
}

func (ctrl *WSController) Handle(c *echo.Context) error {
	conn, err := ctrl.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		ctrl.logger.Debug("Upgrade failed: %v", err)
		return nil
	}

	client := &wsClient{
		id:     uuid.NewString(),
		conn:   conn,
		send:   make(chan []byte, ctrl.App.Config.Server.SendBuffer),
		done:   make(chan struct{}),
		logger: ctrl.logger,
	}

	ctrl.App.Events.Register(client)
	ctrl.logger.Info("Client %s connected from %s", client.id, c.Request().RemoteAddr)

	go client.writePump()

	// Submissions outlive the socket, like any other queued work
	ctx := context.WithoutCancel(c.Request().Context())
	client.readPump(func(msg []byte) {
		ctrl.handleMessage(ctx, client, msg)
	})

	ctrl.App.Events.Unregister(client.id)
	client.Close()
	ctrl.logger.Info("Client %s disconnected", client.id)
	return nil
}

// handleMessage ignores anything that is not a well-formed download
// request. Resolution runs off the read loop so one slow link never stalls
// the connection.
func (ctrl *WSController) handleMessage(ctx context.Context, client *wsClient, msg []byte) {
	var req downloadRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		ctrl.logger.Debug("Ignoring undecodable message from %s: %v", client.id, err)
		return
	}
	if req.Type != requestDownload || strings.TrimSpace(req.URL) == "" {
		return
	}

	go func() {
		if _, err := ctrl.App.Queue.Submit(ctx, req.URL, req.DownloadDir); err != nil {
			ctrl.logger.Warn("Submission of %s from %s failed: %v", req.URL, client.id, err)
			if nerr := client.Notify(events.NewSubmissionFailure(submissionMessage(err))); nerr != nil {
				ctrl.logger.Debug("Could not report failure to %s: %v", client.id, nerr)
			}
		}
	}()
}

type wsClient struct {
	id     string
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	once   sync.Once
	logger *logger.Logger
}

func (c *wsClient) ID() string { return c.id }

// Notify never blocks. A full buffer drops the event for this client only.
func (c *wsClient) Notify(ev events.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	select {
	case <-c.done:
		return errClientClosed
	default:
	}

	select {
	case c.send <- data:
		return nil
	default:
		return errSendBufferFull
	}
}

// Close asks the write pump to send a close frame and drop the connection.
func (c *wsClient) Close() error {
	c.once.Do(func() { close(c.done) })
	return nil
}

func (c *wsClient) readPump(handle func([]byte)) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("Read from %s: %v", c.id, err)
			}
			return
		}
		handle(msg)
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.Close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}
