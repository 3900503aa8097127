package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"firebase.google.com/go/v4/messaging"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"greenloop/internal/adapter/api"
	"greenloop/internal/adapter/api/handler"
	apimiddleware "greenloop/internal/adapter/api/middleware"
	"greenloop/internal/adapter/api/router"
	"greenloop/internal/adapter/repository"
	"greenloop/internal/infrastructure/notification"
	"greenloop/internal/infrastructure/websocket"
	"greenloop/internal/usecase"
	"greenloop/pkg/config"
	"greenloop/pkg/crypto"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opt option.ClientOption

	serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON")
	if serviceAccountJSON != "" {
		log.Printf("Using Firebase service account from environment variable")
		opt = option.WithCredentialsJSON([]byte(serviceAccountJSON))
	} else {
		serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
		if serviceAccountPath == "" {
			serviceAccountPath = "./service-account.json"
		}

		if _, err := os.Stat(serviceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", serviceAccountPath)
		}

		log.Printf("Using Firebase service account from file: %s", serviceAccountPath)
		opt = option.WithCredentialsFile(serviceAccountPath)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	// Push delivery is optional; a messaging init failure should not keep
	// the API from serving.
	var messagingClient *messaging.Client
	if mc, err := firebaseApp.Messaging(ctx); err != nil {
		log.Printf("Failed to initialize Firebase Messaging, push disabled: %v", err)
	} else {
		messagingClient = mc
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	productRepo := repository.NewFirestoreProductRepository(firestoreClient)
	shopRepo := repository.NewFirestoreShopRepository(firestoreClient)
	orderRepo := repository.NewFirestoreOrderRepository(firestoreClient)
	chatRepo := repository.NewFirestoreChatRepository(firestoreClient)
	reviewRepo := repository.NewFirestoreReviewRepository(firestoreClient)

	codec, err := crypto.NewCodec(cfg.MessageEncryptionKey)
	if err != nil {
		log.Fatalf("Failed to initialize message codec: %v", err)
	}

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	notifier := notification.NewMailgunNotifier(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailFrom, messagingClient)

	chatUseCase := usecase.NewChatUseCase(chatRepo, orderRepo, userRepo, productRepo, reviewRepo, wsManager, notifier, codec)
	wsManager.SetJoinAuthorizer(chatUseCase.CanAccessChat)
	orderUseCase := usecase.NewOrderUseCase(orderRepo, productRepo, userRepo, chatUseCase, notifier)
	reviewUseCase := usecase.NewReviewUseCase(reviewRepo, productRepo, orderRepo, userRepo)
	shopUseCase := usecase.NewShopUseCase(shopRepo, productRepo, cfg.ShopSweepInterval)

	shopUseCase.StartSweepJob(ctx)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)
	adminMiddleware := apimiddleware.NewAdminMiddleware(userRepo)

	router.Setup(e, router.Handlers{
		Chat:      handler.NewChatHandler(chatUseCase),
		Order:     handler.NewOrderHandler(orderUseCase),
		Review:    handler.NewReviewHandler(reviewUseCase),
		Shop:      handler.NewShopHandler(shopUseCase),
		WebSocket: handler.NewWebSocketHandler(wsManager, authMiddleware),
		Health:    handler.NewHealthHandler(),
	}, authMiddleware, adminMiddleware)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
