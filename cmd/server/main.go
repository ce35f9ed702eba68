package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"

	"turnero/internal/api"
	"turnero/internal/auth"
	"turnero/internal/repository"
	"turnero/internal/service"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	godotenv.Load()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET not set")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)

	authSvc := service.NewAuthService(userRepo)
	catalogSvc := service.NewCatalogService(serviceRepo)
	scheduleSvc := service.NewScheduleService(scheduleRepo)
	appointmentSvc := service.NewAppointmentService(serviceRepo, scheduleRepo, appointmentRepo)

	authHandler := api.NewAuthHandler(authSvc)
	serviceHandler := api.NewServiceHandler(catalogSvc)
	scheduleHandler := api.NewScheduleHandler(scheduleSvc)
	appointmentHandler := api.NewAppointmentHandler(appointmentSvc)

	r := mux.NewRouter()
	v1 := r.PathPrefix("/api/v1").Subrouter()

	// Public endpoints
	v1.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	v1.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST")
	v1.HandleFunc("/services", serviceHandler.ListServices).Methods("GET")
	v1.HandleFunc("/business-hours", scheduleHandler.ListBusinessHours).Methods("GET")
	v1.HandleFunc("/appointments/available-slots", appointmentHandler.AvailableSlots).Methods("GET")

	// Client endpoints (authenticated)
	client := v1.NewRoute().Subrouter()
	client.Use(auth.RequireAuth)
	client.HandleFunc("/auth/me", authHandler.Me).Methods("GET")
	client.HandleFunc("/appointments", appointmentHandler.CreateAppointment).Methods("POST")
	client.HandleFunc("/appointments/my", appointmentHandler.MyAppointments).Methods("GET")
	client.HandleFunc("/appointments/{id}/cancel", appointmentHandler.CancelAppointment).Methods("PUT")

	// Admin endpoints (protected)
	admin := v1.NewRoute().Subrouter()
	admin.Use(auth.RequireAuth, auth.RequireAdmin)
	admin.HandleFunc("/appointments", appointmentHandler.ListAppointments).Methods("GET")
	admin.HandleFunc("/appointments/{id}/status", appointmentHandler.SetStatus).Methods("PUT")
	admin.HandleFunc("/services", serviceHandler.CreateService).Methods("POST")
	admin.HandleFunc("/services/list", serviceHandler.ListAllServices).Methods("GET")
	admin.HandleFunc("/services/{id}", serviceHandler.UpdateService).Methods("PUT")
	admin.HandleFunc("/services/{id}", serviceHandler.DeleteService).Methods("DELETE")
	admin.HandleFunc("/business-hours", scheduleHandler.SetBusinessHours).Methods("POST")
	admin.HandleFunc("/blocked-days", scheduleHandler.BlockDay).Methods("POST")
	admin.HandleFunc("/blocked-days", scheduleHandler.ListBlockedDays).Methods("GET")
	admin.HandleFunc("/blocked-days/{id}", scheduleHandler.UnblockDay).Methods("DELETE")

	clientURL := os.Getenv("CLIENT_URL")
	if clientURL == "" {
		clientURL = "http://localhost:3000"
	}
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{clientURL}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, handlers.LoggingHandler(os.Stdout, cors(r))))
}
