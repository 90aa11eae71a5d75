package socket

import (
	"log"

	socketio "github.com/googollee/go-socket.io"
)

// NewSocketServer initializes and returns a new Socket.IO server.
// Clients join a room named after their user ID to receive match events.
func NewSocketServer() *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		log.Println("✅ Socket connected:", c.ID())
		return nil
	})

	server.OnEvent("/", "join", func(c socketio.Conn, data map[string]string) {
		userID := data["userId"]
		if userID == "" {
			log.Println("❌ Invalid userId in join request")
			return
		}
		log.Printf("👥 Socket %s joined room %s\n", c.ID(), userID)
		c.Join(userID)
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("❌ Socket disconnected:", c.ID(), reason)
	})

	return server
}

// MatchEventNotifier broadcasts engine match events over Socket.IO.
type MatchEventNotifier struct {
	Server *socketio.Server
}

// MatchCreated notifies both sides of a new match. Fire-and-forget: the
// match record is already committed when this runs.
func (n *MatchEventNotifier) MatchCreated(matchID, userAID, userBID string) {
	payload := map[string]string{
		"matchId": matchID,
		"userAId": userAID,
		"userBId": userBID,
	}
	n.Server.BroadcastToRoom("/", userAID, "matchCreated", payload)
	n.Server.BroadcastToRoom("/", userBID, "matchCreated", payload)
	log.Printf("🎉 matchCreated broadcast for %s", matchID)
}
