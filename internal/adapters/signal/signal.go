package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/La-Tva/test-visioconf-sub001/internal/app"
	"github.com/La-Tva/test-visioconf-sub001/internal/config"
	"github.com/La-Tva/test-visioconf-sub001/internal/core"
	"github.com/La-Tva/test-visioconf-sub001/internal/directory"
	"github.com/La-Tva/test-visioconf-sub001/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

// SignalWSController accepts signaling connections and feeds their events
// to the coordinator. Every accepted socket gets a brand new endpoint id;
// ids are never reused across reconnects.
type SignalWSController struct {
	Coord    *app.Coordinator
	Registry *app.Registry
	Dir      *directory.Memory
	Cfg      *config.Config
	Limiter  *CallTeamLimiter
}

func NewSignalWSController(coord *app.Coordinator, reg *app.Registry, dir *directory.Memory, cfg *config.Config) *SignalWSController {
	return &SignalWSController{
		Coord:    coord,
		Registry: reg,
		Dir:      dir,
		Cfg:      cfg,
		Limiter:  NewCallTeamLimiter(cfg.JoinRequestLimit, cfg.JoinRequestInterval),
	}
}

type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	ep := core.EndpointID(uuid.NewString())

	var user *domain.User
	if uid := c.Query("user"); uid != "" {
		if u, ok := ctl.Dir.User(domain.UserID(uid)); ok {
			user = u
		} else {
			log.Warn().Str("module", "signal").Str("user", uid).Msg("unknown user, connecting anonymously")
		}
	}
	log.Info().Str("module", "signal").Str("endpoint", string(ep)).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade")
		return
	}
	ws.SetReadLimit(ctl.Cfg.ReadLimit)

	conn := &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, ctl.Cfg.SendBuffer),
	}
	ctl.Registry.Bind(ep, conn, user)

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, ep, conn)
}

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	ping := time.NewTicker(ctl.Cfg.PingPeriod)
	defer ping.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Msg("writePump ctx done")
			return
		case <-ping.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				log.Warn().Err(err).Str("module", "signal").Msg("writePump ping failed")
				return
			}
		case data, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *SignalWSController) readPump(ctx context.Context, cancel context.CancelFunc, ep core.EndpointID, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("endpoint", string(ep)).Msg("readPump closing")
		// Retire call state before the presence binding disappears: the
		// cascade still needs to resolve who this endpoint was.
		ctl.Coord.OnDisconnect(ctx, ep)
		ctl.Registry.Unbind(ep)
		ctl.Limiter.Forget(ep)
		cancel()
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("endpoint", string(ep)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Debug().Err(err).Str("module", "signal").Str("endpoint", string(ep)).Msg("readPump read error")
				return
			}
			ctl.handleSignal(ctx, ep, c, data)
		}
	}
}
