package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/dailygrind-app/dailygrind-backend/internal/google"
	"github.com/dailygrind-app/dailygrind-backend/pkg/ai"
	"github.com/dailygrind-app/dailygrind-backend/pkg/auth"
	"github.com/dailygrind-app/dailygrind-backend/pkg/communication"
	"github.com/dailygrind-app/dailygrind-backend/pkg/email"
	"github.com/dailygrind-app/dailygrind-backend/pkg/environment"
	"github.com/dailygrind-app/dailygrind-backend/pkg/locking"
	"github.com/dailygrind-app/dailygrind-backend/pkg/logger"
	"github.com/dailygrind-app/dailygrind-backend/pkg/notifications"
	"github.com/dailygrind-app/dailygrind-backend/pkg/tasks"
	"github.com/dailygrind-app/dailygrind-backend/pkg/users"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	environment.Initialize()

	var logging logger.Interface = logger.Logger{}
	logging.Info("Server is starting up...")

	location, err := time.LoadLocation(environment.Global.TimeZone)
	if err != nil {
		logging.Fatal(err)
	}

	client, err := mongo.NewClient(options.Client().ApplyURI(environment.Global.DatabaseUrl))
	if err != nil {
		logging.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = client.Connect(ctx)
	if err != nil {
		logging.Fatal(err)
	}

	err = client.Ping(ctx, nil)
	if err != nil {
		logging.Fatal(err)
	}

	defer func() {
		err := client.Disconnect(ctx)
		if err != nil {
			logging.Fatal(err)
		}
	}()

	logging.Info("Database connected")

	db := client.Database(environment.Global.Database)

	userCollection := db.Collection("Users")
	taskCollection := db.Collection("Tasks")
	goalCollection := db.Collection("Goals")

	responseManager := communication.ResponseManager{Logger: logging}

	var locker locking.LockerInterface
	var userCache tasks.UserDataCacheInterface

	if environment.Global.Redis != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     environment.Global.Redis,
			Password: environment.Global.RedisPassword,
		})

		locker = locking.NewLockerRedis(redisClient)

		userCache, err = tasks.NewUserCacheRedis(redisClient)
		if err != nil {
			logging.Fatal(err)
		}
	} else {
		locker = locking.NewLockerMemory()

		userCache, err = tasks.NewMockUserCache()
		if err != nil {
			logging.Fatal(err)
		}
	}

	var mailer email.Mailer
	if environment.Global.Sendinblue != "" {
		mailer = email.NewSendInBlueService(environment.Global.Sendinblue)
	}

	userRepository := &users.UserRepository{DB: userCollection, Logger: logging}
	taskRepository := &tasks.MongoDBTaskRepository{DB: taskCollection, Logger: logging}
	goalRepository := &tasks.MongoDBGoalRepository{DB: goalCollection}

	googleConfig := google.NewConfig("", environment.Global.BaseUrl)

	calendarManager, err := tasks.NewCalendarRepositoryManager(googleConfig, userRepository, userCache, logging)
	if err != nil {
		logging.Fatal(err)
	}

	syncService := tasks.NewSyncService(taskRepository, calendarManager, locker, logging, location)

	userHandler := users.Handler{
		UserRepository:  userRepository,
		Logger:          logging,
		ResponseManager: &responseManager,
		Secret:          environment.Global.Secret,
		EmailService:    mailer,
	}

	taskHandler := tasks.Handler{
		SyncService:     syncService,
		UserRepository:  userRepository,
		Logger:          logging,
		ResponseManager: &responseManager,
	}

	goalHandler := tasks.GoalHandler{
		GoalRepository:  goalRepository,
		UserRepository:  userRepository,
		Logger:          logging,
		ResponseManager: &responseManager,
	}

	calendarHandler := tasks.CalendarHandler{
		UserRepository:  userRepository,
		UserCache:       userCache,
		GoogleConfig:    googleConfig,
		Logger:          logging,
		ResponseManager: &responseManager,
		FrontendBaseURL: environment.Global.FrontendBaseUrl,
	}

	assistant := ai.NewAssistant(
		ai.NewClient(environment.Global.GroqAPIKey, environment.Global.GroqBaseURL, environment.Global.GroqModel),
		syncService, logging)

	aiHandler := ai.Handler{
		Assistant:       assistant,
		UserRepository:  userRepository,
		Logger:          logging,
		ResponseManager: &responseManager,
	}

	if environment.Global.Firebase != "" {
		notificationController := notifications.NewNotificationController(logging, userRepository)
		taskRepository.Subscribe(&notificationController)

		reminderScheduler := notifications.NewReminderScheduler(taskRepository, &notificationController, logging, location)
		err = reminderScheduler.Start()
		if err != nil {
			logging.Fatal(err)
		}
		defer reminderScheduler.Stop()
	}

	authMiddleware := auth.AuthenticationMiddleware{
		ResponseManager: &responseManager,
		Secret:          environment.Global.Secret,
	}

	r := mux.NewRouter()
	r.HandleFunc("/", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)

		_, err := fmt.Fprint(writer, "Welcome to the Daily Grind API! ✔")
		if err != nil {
			logging.Error("Problem writing response", err)
		}
	})

	unauthenticated := r.PathPrefix("/v1").Subrouter()
	unauthenticated.HandleFunc("/auth/register", userHandler.UserRegister).Methods(http.MethodPost)
	unauthenticated.HandleFunc("/auth/login", userHandler.UserLogin).Methods(http.MethodPost)
	unauthenticated.HandleFunc("/auth/refresh", userHandler.UserRefresh).Methods(http.MethodPost)
	unauthenticated.HandleFunc("/auth/register/verify", userHandler.VerifyRegistrationGet).Methods(http.MethodGet)
	unauthenticated.HandleFunc("/calendar/google/callback", calendarHandler.GoogleCallback).Methods(http.MethodGet)

	authenticated := r.PathPrefix("/v1").Subrouter()
	authenticated.Use(authMiddleware.Middleware)

	authenticated.HandleFunc("/user", userHandler.UserGet).Methods(http.MethodGet)
	authenticated.HandleFunc("/user/device", userHandler.UserAddDevice).Methods(http.MethodPost)
	authenticated.HandleFunc("/user/device/{deviceToken}", userHandler.UserRemoveDevice).Methods(http.MethodDelete)

	authenticated.HandleFunc("/tasks", taskHandler.TaskGetAll).Methods(http.MethodGet)
	authenticated.HandleFunc("/tasks", taskHandler.TaskAdd).Methods(http.MethodPost)
	authenticated.HandleFunc("/tasks/bulk", taskHandler.TaskBulkEdit).Methods(http.MethodPost)
	authenticated.HandleFunc("/tasks/analytics", taskHandler.TaskAnalytics).Methods(http.MethodGet)
	authenticated.HandleFunc("/tasks/{taskID}", taskHandler.TaskUpdate).Methods(http.MethodPut)
	authenticated.HandleFunc("/tasks/{taskID}/done", taskHandler.TaskToggleDone).Methods(http.MethodPatch)
	authenticated.HandleFunc("/tasks/{taskID}", taskHandler.TaskDelete).Methods(http.MethodDelete)

	authenticated.HandleFunc("/goals", goalHandler.GoalGetAll).Methods(http.MethodGet)
	authenticated.HandleFunc("/goals", goalHandler.GoalAdd).Methods(http.MethodPost)
	authenticated.HandleFunc("/goals/{goalID}/progress", goalHandler.GoalProgress).Methods(http.MethodPatch)
	authenticated.HandleFunc("/goals/{goalID}", goalHandler.GoalDelete).Methods(http.MethodDelete)

	authenticated.HandleFunc("/calendar/google/connect", calendarHandler.GoogleConnect).Methods(http.MethodPost)
	authenticated.HandleFunc("/calendar/google", calendarHandler.GoogleDisconnect).Methods(http.MethodDelete)

	authenticated.HandleFunc("/ai/chat", aiHandler.Chat).Methods(http.MethodPost)
	authenticated.HandleFunc("/ai/task", aiHandler.TaskCreate).Methods(http.MethodPost)

	r.Use(contentTypeMiddleware)
	r.Use(corsMiddleware)

	logging.Info(fmt.Sprintf("Server is listening on port %s", environment.Global.Port))
	log.Panic(http.ListenAndServe(fmt.Sprintf(":%s", environment.Global.Port), r))
}

func contentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Add("Content-Type", "application/json")
		next.ServeHTTP(writer, request)
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		origin := request.Header.Get("Origin")

		for _, allowed := range strings.Split(environment.Global.Cors, ",") {
			if allowed == origin || allowed == "*" {
				writer.Header().Set("Access-Control-Allow-Origin", origin)
				break
			}
		}

		writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")

		if request.Method == http.MethodOptions {
			writer.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(writer, request)
	})
}
