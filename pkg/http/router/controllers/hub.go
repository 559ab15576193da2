package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"sync"

	"github.com/aryo-w/streetflow/pkg/simulation"
	"github.com/go-playground/validator/v10"
	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// User is one websocket session. Each session owns its own background
// worker, so one client's long run never blocks another's.
type User struct {
	io   sync.Mutex
	conn io.ReadWriteCloser

	id  uint
	hub *Hub
	log *zap.Logger
}

func (u *User) readMessage() (*simulation.Message, error) {
	u.io.Lock()
	defer u.io.Unlock()

	h, r, err := wsutil.NextReader(u.conn, ws.StateServerSide)
	if err != nil {
		return nil, err
	}
	if h.OpCode.IsControl() {
		return nil, wsutil.ControlFrameHandler(u.conn, ws.StateServerSide)(h, r)
	}

	msg := &simulation.Message{}
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (u *User) write(x interface{}) error {
	w := wsutil.NewWriter(u.conn, ws.StateServerSide, ws.OpText)
	encoder := json.NewEncoder(w)

	u.io.Lock()
	defer u.io.Unlock()

	if err := encoder.Encode(x); err != nil {
		return err
	}

	return w.Flush()
}

// Serve pumps run/cancel messages into a background worker and streams
// the worker's progress, result and error messages back over the
// connection until the client hangs up.
func (u *User) Serve(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer u.conn.Close()

	in := make(chan simulation.Message)
	out := make(chan simulation.Message, 16)

	go simulation.RunWorker(ctx, u.log, in, out)

	go func() {
		defer close(in)
		for {
			msg, err := u.readMessage()
			if err != nil {
				cancel()
				return
			}
			if msg == nil {
				continue
			}

			if msg.Type == simulation.MSG_RUN && msg.Payload != nil {
				validate := validator.New()
				if err := validate.Struct(msg.Payload); err != nil {
					_ = u.write(simulation.Message{
						Type: simulation.MSG_ERROR,
						Err:  fmt.Sprintf("validation error: %v", flattenValidationError(err)),
					})
					continue
				}
			}

			select {
			case in <- *msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-out:
			if err := u.write(msg); err != nil {
				return
			}
		}
	}
}

type Hub struct {
	mu  sync.RWMutex
	seq uint
	us  []*User
	ns  map[uint]*User

	log *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		ns:  make(map[uint]*User),
		us:  make([]*User, 0),
		log: log,
	}
}

func (h *Hub) Register(conn net.Conn) *User {
	user := &User{
		hub:  h,
		conn: conn,
		log:  h.log,
	}

	h.mu.Lock()
	user.id = h.seq
	h.ns[user.id] = user
	h.us = append(h.us, user)

	h.seq++
	h.mu.Unlock()

	return user
}

func (h *Hub) Remove(user *User) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, oki := h.ns[user.id]; !oki {
		return
	}
	delete(h.ns, user.id)

	i := sort.Search(len(h.us), func(i int) bool {
		return h.us[i].id >= user.id
	})

	newUs := make([]*User, len(h.us)-1)
	copy(newUs[:i], h.us[:i])
	copy(newUs[i:], h.us[i+1:])
	h.us = newUs
}

func (api *trafficAPI) simulateWs(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	conn, _, _, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		api.log.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	user := api.hub.Register(conn)
	go func() {
		defer api.hub.Remove(user)
		user.Serve(context.Background())
	}()
}
