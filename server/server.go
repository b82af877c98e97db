package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Nairod97425/Rag/internal/models"
	"github.com/Nairod97425/Rag/pkg/rag"
	"github.com/Nairod97425/Rag/pkg/store"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Be careful with this in production
	},
}

// Message is the WebSocket wire format in both directions. The client
// sends {type:"question"}; the server replies with a "status" while
// retrieving, then a "response" whose Data carries the full answer
// record, or an "error".
type Message struct {
	Type    string      `json:"type"`
	Content string      `json:"content"`
	Data    interface{} `json:"data,omitempty"`
}

// WSServer serves the chat UI over WebSocket, answering each question
// through the shared RAG engine.
type WSServer struct {
	engine      *rag.Engine
	showSources bool
}

func NewWSServer(engine *rag.Engine, showSources bool) *WSServer {
	return &WSServer{
		engine:      engine,
		showSources: showSources,
	}
}

// Handler returns the HTTP mux exposing /ws and /health.
func (s *WSServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	return mux
}

func (s *WSServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			log.Printf("Error reading message: %v", err)
			break
		}

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Error unmarshaling message: %v", err)
			continue
		}

		s.handleMessage(r.Context(), conn, msg)
	}
}

func (s *WSServer) handleMessage(ctx context.Context, conn *websocket.Conn, msg Message) {
	question := msg.Content
	if question == "" {
		s.sendError(conn, "empty question")
		return
	}

	s.sendMessage(conn, Message{Type: "status", Content: "Analyse des documents en cours..."})

	record, err := s.engine.AskWithContext(ctx, question)
	if err != nil {
		// The UI renders a visible error and halts the turn; it never
		// guesses an ungrounded answer.
		if errors.Is(err, store.ErrIndexNotFound) {
			s.sendError(conn, "no index available, run the indexer first")
			return
		}
		s.sendError(conn, fmt.Sprintf("failed to answer: %v", err))
		return
	}

	response := Message{
		Type:    "response",
		Content: record.Answer,
	}
	if s.showSources {
		response.Data = map[string]interface{}{
			"sources":          formatSources(record.SourceDocuments),
			"source_documents": record.SourceDocuments,
		}
	}
	s.sendMessage(conn, response)
}

// formatSources renders one markdown link per distinct source document.
func formatSources(docs []models.SourceDocument) []string {
	var sources []string
	seen := make(map[string]bool)

	for _, doc := range docs {
		url := doc.Metadata["source"]
		if seen[url] {
			continue
		}
		seen[url] = true
		sources = append(sources, fmt.Sprintf("[%s](%s)", doc.Metadata["title"], url))
	}
	return sources
}

func (s *WSServer) sendError(conn *websocket.Conn, content string) {
	s.sendMessage(conn, Message{Type: "error", Content: content})
}

func (s *WSServer) sendMessage(conn *websocket.Conn, msg Message) {
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}
