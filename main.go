package main

import (
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/blogem/household-budget/controllers"
	"github.com/blogem/household-budget/database"
	"github.com/blogem/household-budget/middleware"
	"github.com/blogem/household-budget/repositories"
	"github.com/blogem/household-budget/services"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.WithError(err).Warn("no .env file loaded")
	}

	driver := os.Getenv("DATABASE_DRIVER")
	if driver == "" {
		driver = "postgres"
	}
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL is required")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is required")
	}

	// Initialize database and run migrations
	db, err := database.Initialize(driver, dsn)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize database")
	}
	defer db.Close()

	// Initialize repositories
	repos := repositories.NewRepositories(db)

	// Initialize services
	srvs := services.NewServices(db, repos, logger)

	// Initialize controllers
	ctrl := controllers.NewControllers(srvs)

	r := setupRouter(ctrl, repos, logger, []byte(jwtSecret))

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.WithField("port", port).Info("household budget API starting")
	logger.Fatal(http.ListenAndServe(":"+port, r))
}

// setupRouter configures all routes
func setupRouter(ctrl *controllers.Controllers, repos *repositories.Repositories, logger *logrus.Logger, jwtSecret []byte) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status": "healthy", "service": "household-budget"}`))
	})

	// PROTECTED ROUTES (authentication required); every mutation gets
	// an audit api call row before its handler runs
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwtSecret))
		r.Use(middleware.AuditTracker(repos.Audit, logger))

		r.Route("/budgets", func(r chi.Router) {
			r.Post("/", ctrl.Budget.Create)
			r.Patch("/{uuid}", ctrl.Budget.Update)
			r.Delete("/{uuid}", ctrl.Budget.Delete)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", ctrl.Category.Create)
			r.Patch("/{uuid}", ctrl.Category.Update)
			r.Delete("/{uuid}", ctrl.Category.Delete)
		})

		r.Route("/subcategories", func(r chi.Router) {
			r.Post("/", ctrl.Subcategory.Create)
			r.Patch("/{uuid}", ctrl.Subcategory.Update)
			r.Delete("/{uuid}", ctrl.Subcategory.Delete)
		})

		r.Route("/vendors", func(r chi.Router) {
			r.Post("/", ctrl.Vendor.Create)
			r.Patch("/{uuid}", ctrl.Vendor.Update)
			r.Delete("/{uuid}", ctrl.Vendor.Delete)
		})

		r.Route("/household-members", func(r chi.Router) {
			r.Post("/", ctrl.Member.Create)
			r.Patch("/{uuid}", ctrl.Member.Update)
			r.Delete("/{uuid}", ctrl.Member.Delete)
		})

		r.Route("/employers", func(r chi.Router) {
			r.Post("/", ctrl.Employer.Create)
			r.Patch("/{uuid}", ctrl.Employer.Update)
			r.Delete("/{uuid}", ctrl.Employer.Delete)
		})

		r.Route("/funds", func(r chi.Router) {
			r.Post("/", ctrl.Fund.Create)
			r.Patch("/{uuid}", ctrl.Fund.Update)
			r.Delete("/{uuid}", ctrl.Fund.Delete)
		})

		r.Route("/deposits", func(r chi.Router) {
			r.Post("/", ctrl.Deposit.Create)
			r.Patch("/{uuid}", ctrl.Deposit.Update)
			r.Delete("/{uuid}", ctrl.Deposit.Delete)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Post("/", ctrl.Expense.Create)
			r.Patch("/{uuid}", ctrl.Expense.Update)
			r.Delete("/{uuid}", ctrl.Expense.Delete)
		})

		r.Route("/incomes", func(r chi.Router) {
			r.Post("/", ctrl.Income.Create)
			r.Patch("/{uuid}", ctrl.Income.Update)
			r.Delete("/{uuid}", ctrl.Income.Delete)
		})

		r.Route("/loans", func(r chi.Router) {
			r.Post("/", ctrl.Loan.Create)
			r.Patch("/{uuid}", ctrl.Loan.Update)
			r.Delete("/{uuid}", ctrl.Loan.Delete)
		})

		r.Route("/attachments", func(r chi.Router) {
			r.Patch("/{uuid}", ctrl.Attachment.Update)
			r.Delete("/{uuid}", ctrl.Attachment.Delete)
		})
	})

	return r
}
