package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/attendly/attendance-backend-go/internal/config"
	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/fixtures"
	appHTTP "github.com/attendly/attendance-backend-go/internal/handler/http"
	"github.com/attendly/attendance-backend-go/internal/pkg/clock"
	"github.com/attendly/attendance-backend-go/internal/pkg/database"
	"github.com/attendly/attendance-backend-go/internal/pkg/jwt"
	"github.com/attendly/attendance-backend-go/internal/pkg/metrics"
	"github.com/attendly/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/attendly/attendance-backend-go/internal/service/attendance"
	employeeService "github.com/attendly/attendance-backend-go/internal/service/employee"
	reportService "github.com/attendly/attendance-backend-go/internal/service/report"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	seed := flag.Bool("seed", false, "seed demo employees and attendance history, then continue serving")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	if err := database.RunMigrations(dsn); err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)

	if *seed {
		if err := fixtures.Seed(context.Background(), db, employeeRepo, cfg.Location()); err != nil {
			log.Fatal("Failed to seed demo data: ", err)
		}
		fmt.Println("Demo data seeded")
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	policy, err := attendance.NewStatusPolicy(cfg.Attendance.LateAfter, cfg.Attendance.HalfDayAfter)
	if err != nil {
		log.Fatal("Invalid attendance cutoffs: ", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	clk := clock.NewSystem(cfg.Location())
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, clk, policy, collector)
	reportSvc := reportService.NewReportService(attendanceRepo, clk, collector)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)
	employeeHandler := appHTTP.NewEmployeeHandler(employeeSvc)

	router := appHTTP.NewRouter(cfg, JWTService, attendanceHandler, reportHandler, employeeHandler, registry)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
