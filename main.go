package main

import (
	"log"
	"net/http"
	"os"

	"hackmate_server/routes"
	"hackmate_server/services"
	"hackmate_server/socket"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	_ = godotenv.Load()

	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Initialize Socket.IO server for match notifications
	socketServer := socket.NewSocketServer()
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Printf("❌ Socket.IO server error: %v", err)
		}
	}()

	// Initialize Services
	profileService := &services.ProfileService{Dynamo: dynamoService}
	ledgerService := &services.LedgerService{Dynamo: dynamoService}
	ranker := services.NewCandidateRanker()
	queueService := services.NewMatchQueueService(profileService, ledgerService, ranker)
	notifier := &socket.MatchEventNotifier{Server: socketServer}
	swipeService := services.NewSwipeService(ledgerService, profileService, queueService, notifier)

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Register routes
	routes.RegisterRoutes(r)
	routes.RegisterMatchRoutes(r, queueService, ledgerService)
	routes.RegisterSwipeRoutes(r, swipeService)
	r.Handle("/socket.io/", socketServer)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server; when it stops serving, shut the Socket.IO
	// server down before exiting (log.Fatal would skip any defers).
	log.Printf("Starting server on port %s...\n", port)
	err := http.ListenAndServe(":"+port, corsHandler)
	socketServer.Close()
	log.Fatal(err)
}
