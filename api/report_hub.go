package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"themeradar/internal/app"
	"themeradar/internal/logger"
	"themeradar/internal/serialize"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type wsMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type reportRunMessage struct {
	Run    app.RunSummary       `json:"run"`
	Report serialize.ReportJSON `json:"report"`
}

// ReportHub fans finished runs out to every connected dashboard
type ReportHub struct {
	mu          sync.RWMutex
	clients     map[*websocket.Conn]bool
	clientMutex map[*websocket.Conn]*sync.Mutex
}

func NewReportHub() *ReportHub {
	return &ReportHub{
		clients:     make(map[*websocket.Conn]bool),
		clientMutex: make(map[*websocket.Conn]*sync.Mutex),
	}
}

func (h *ReportHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *ReportHub) HandleWebSocket(c *gin.Context) {
	log := logger.FromContext(c.Request.Context())

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Errorw("failed to upgrade websocket", "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.clientMutex[conn] = &sync.Mutex{}
	clientCount := len(h.clients)
	h.mu.Unlock()
	log.Debugw("websocket client connected", "clients", clientCount)

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		delete(h.clientMutex, conn)
		clientCount := len(h.clients)
		h.mu.Unlock()

		conn.Close()
		log.Debugw("websocket client disconnected", "clients", clientCount)
	}()

	// clients never send anything useful, reading only detects the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warnw("websocket error", "error", err)
			}
			break
		}
	}
}

func (h *ReportHub) BroadcastRun(run app.RunSummary, report serialize.ReportJSON) {
	log := logger.FromContext(context.Background())

	data, err := json.Marshal(wsMessage{
		Type: "report_run",
		Payload: reportRunMessage{
			Run:    run,
			Report: report,
		},
	})
	if err != nil {
		log.Errorw("failed to marshal report run message", "error", err)
		return
	}

	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	mutexes := make([]*sync.Mutex, 0, len(h.clients))
	for conn := range h.clients {
		clients = append(clients, conn)
		mutexes = append(mutexes, h.clientMutex[conn])
	}
	h.mu.RUnlock()

	for i, conn := range clients {
		mutexes[i].Lock()
		err := conn.WriteMessage(websocket.TextMessage, data)
		mutexes[i].Unlock()
		if err != nil {
			log.Warnw("failed to send report run to client", "error", err)
		}
	}
}
