package main

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	httpadp "loanhub-backend/internal/adapter/http"
	"loanhub-backend/internal/adapter/repository/mysql"
	"loanhub-backend/internal/config"
	"loanhub-backend/internal/infrastructure/cache"
	"loanhub-backend/internal/infrastructure/db"
	authUC "loanhub-backend/internal/usecase/auth"
	categoryUC "loanhub-backend/internal/usecase/category"
	dashboardUC "loanhub-backend/internal/usecase/dashboard"
	loanUC "loanhub-backend/internal/usecase/loan"
	paymentUC "loanhub-backend/internal/usecase/payment"
)

func main() {
	_ = godotenv.Load()
	logrus.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logrus.WithError(err).Fatal("config")
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		logrus.WithError(err).Fatal("mysql")
	}
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logrus.WithError(err).Fatal("redis")
	}

	loanRepo := mysql.NewLoanRepository(gdb)
	txnRepo := mysql.NewTransactionRepository(gdb)
	catRepo := mysql.NewCategoryRepository(gdb)
	userRepo := mysql.NewUserRepository(gdb)
	uow := mysql.NewGormUoW(gdb)

	auth := authUC.NewUsecase(userRepo, rdb, cfg.SessionTTL)
	loans := loanUC.NewUsecase(loanRepo, catRepo, uow)
	payments := paymentUC.NewUsecase(txnRepo, uow)
	categories := categoryUC.NewUsecase(catRepo)
	dashboards := dashboardUC.NewUsecase(loanRepo, txnRepo, userRepo)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger(), middleware.Recover())
	e.Validator = httpadp.NewValidator()

	httpadp.Register(e, httpadp.Routers{
		Health:    httpadp.NewHandler(),
		Auth:      httpadp.NewAuthHandler(auth, cfg.SessionCookie, cfg.CSRFCookie, cfg.CookieSecure, cfg.SessionTTL),
		Loans:     httpadp.NewLoanHandler(loans),
		Payments:  httpadp.NewPaymentHandler(payments),
		Category:  httpadp.NewCategoryHandler(categories),
		Dashboard: httpadp.NewDashboardHandler(dashboards),
	}, auth, rdb, cfg.SessionCookie, cfg.CSRFCookie, time.Duration(cfg.IdempTTLSecs)*time.Second)

	addr := ":" + cfg.AppPort
	logrus.WithField("addr", addr).Info("listening")
	if err := e.Start(addr); err != nil {
		logrus.Fatal(err)
	}
}
