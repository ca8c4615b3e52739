// Package wsserver accepts inbound WebSocket connections and dispatches
// each text frame it receives to the task manager, one goroutine per
// message so a slow task never blocks the read loop.
package wsserver

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/takanopontaro/footloose2/internal/command"
	"github.com/takanopontaro/footloose2/internal/connarg"
	"github.com/takanopontaro/footloose2/internal/sender"
	"github.com/takanopontaro/footloose2/internal/taskmgr"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true }, // loopback-only tool, no cross-origin concern
}

// Handler returns an http.HandlerFunc that upgrades /ws requests and runs
// each connection's read loop until it disconnects.
func Handler(tasks *taskmgr.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("wsserver: upgrade: %v", err)
			return
		}
		go serve(conn, tasks)
	}
}

func serve(conn *websocket.Conn, tasks *taskmgr.Manager) {
	defer conn.Close()

	s := sender.New(conn)
	arg := connarg.New(s.ID(), s)

	for {
		msgType, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if msgType != websocket.TextMessage {
			continue
		}

		cmd, err := command.Parse(raw)
		if err != nil {
			if sendErr := s.CommandError(err); sendErr != nil {
				log.Printf("wsserver: send command_error: %v", sendErr)
			}
			continue
		}

		go tasks.Run(cmd, arg)
	}

	tasks.DropAllDisposers(arg.Sender.ID())
	tasks.RunInternal("remove_client", arg)
}
