package main

import (
	"creditProject/config"
	"creditProject/controllers"
	"creditProject/database"
	"creditProject/middleware"
	"creditProject/services"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

// healthHandler отвечает на проверку живости сервиса
func healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

// initIngestionScheduler запускает периодический импорт данных
func initIngestionScheduler(ingestion *services.IngestionService, cfg *config.Config) {
	scheduler := services.NewIngestionSchedulerService(ingestion, cfg.Ingestion.IntervalHours)
	scheduler.Start()
	log.Println("Планировщик импорта данных запущен")
}

func main() {
	// Инициализируем конфигурацию
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// Инициализируем подключение к базе данных
	gormDB, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Ошибка подключения к базе данных: %v", err)
	}
	db := &database.Database{DB: gormDB}

	// Инициализируем кэш рейтингов
	scoreCache := database.NewScoreCache(cfg)

	// Инициализируем сервисы
	emailService := services.NewEmailService(cfg)
	scoringService := services.NewScoringService(gormDB, scoreCache)
	eligibilityService := services.NewEligibilityService(gormDB, scoringService)
	loanService := services.NewLoanService(gormDB, eligibilityService, scoreCache, emailService)
	ingestionService := services.NewIngestionService(db, scoreCache, cfg.Ingestion.DataDir, cfg.Ingestion.Workers)

	// Запускаем планировщик импорта
	initIngestionScheduler(ingestionService, cfg)

	// Создаем роутер
	router := mux.NewRouter()
	router.Use(middleware.CORSMiddleware)
	router.Use(middleware.Recovery)
	router.Use(middleware.RateLimit)

	// Инициализируем контроллеры
	authController := controllers.NewAuthController(db, cfg)
	customerController := controllers.NewCustomerController(db)
	loanController := controllers.NewLoanController(eligibilityService, loanService)
	adminController := controllers.NewAdminController(ingestionService)

	router.HandleFunc("/health", healthHandler).Methods("GET")

	// Публичные маршруты для аутентификации операторов
	router.HandleFunc("/api/auth/signUp", authController.SignUp).Methods("POST")
	router.HandleFunc("/api/auth/signIn", authController.SignIn).Methods("POST")

	// Маршруты кредитной платформы
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.LoggingMiddleware)

	api.HandleFunc("/register", customerController.Register).Methods("POST")
	api.HandleFunc("/check-eligibility", loanController.CheckEligibility).Methods("POST")
	api.HandleFunc("/create-loan", loanController.CreateLoan).Methods("POST")
	api.HandleFunc("/view-loan/{loan_id}", loanController.ViewLoan).Methods("GET")
	api.HandleFunc("/view-loans/{customer_id}", loanController.ViewLoans).Methods("GET")

	// Защищенные служебные маршруты
	admin := router.PathPrefix("/api/admin").Subrouter()
	admin.Use(middleware.AuthMiddleware([]byte(authController.GetJWTKey())))
	admin.Use(middleware.LoggingMiddleware)

	admin.HandleFunc("/ingest", adminController.TriggerIngestion).Methods("POST")
	admin.HandleFunc("/metrics", adminController.Metrics).Methods("GET")

	// Запускаем сервер
	port := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущен на порту %s", port)
	if err := http.ListenAndServe(port, router); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
