package main

import (
	"fmt"
	"net/http"

	"github.com/tidyops/payroll-backend-go/internal/config"
	appHTTP "github.com/tidyops/payroll-backend-go/internal/handler/http"
	"github.com/tidyops/payroll-backend-go/internal/pkg/database"
	"github.com/tidyops/payroll-backend-go/internal/pkg/jwt"
	"github.com/tidyops/payroll-backend-go/internal/repository/postgresql"
	payrollrunService "github.com/tidyops/payroll-backend-go/internal/service/payrollrun"
	rateService "github.com/tidyops/payroll-backend-go/internal/service/rate"
	timesheetService "github.com/tidyops/payroll-backend-go/internal/service/timesheet"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn, cfg.Database.MaxConns)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	rateRepo := postgresql.NewRateRepository(db)
	jobRepo := postgresql.NewJobRepository(db)
	timesheetRepo := postgresql.NewTimesheetRepository(db)
	runRepo := postgresql.NewRunRepository(db)
	cycleRepo := postgresql.NewCycleRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	rateSvc := rateService.NewRateService(rateRepo)
	timesheetSvc := timesheetService.NewTimesheetService(timesheetRepo, jobRepo, rateRepo)
	runSvc := payrollrunService.NewRunService(runRepo, cycleRepo, timesheetRepo)

	rateHandler := appHTTP.NewRateHandler(rateSvc)
	timesheetHandler := appHTTP.NewTimesheetHandler(timesheetSvc)
	payrollRunHandler := appHTTP.NewPayrollRunHandler(runSvc)

	router := appHTTP.NewRouter(
		cfg.App,
		JWTService,
		rateHandler,
		timesheetHandler,
		payrollRunHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
