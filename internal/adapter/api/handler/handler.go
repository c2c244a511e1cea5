package handler

import (
	"scamwatch/internal/infrastructure/ratelimit"
	"scamwatch/internal/usecase"
)

var (
	reportHandler *ReportHandler
	alertHandler  *AlertHandler
	userHandler   *UserHandler
)

func Setup(
	reportUseCase *usecase.ReportUseCase,
	verificationUseCase *usecase.VerificationUseCase,
	alertUseCase *usecase.AlertUseCase,
	userUseCase *usecase.UserUseCase,
	limiter *ratelimit.RateLimiter,
) {
	reportHandler = NewReportHandler(reportUseCase, verificationUseCase, limiter)
	alertHandler = NewAlertHandler(alertUseCase)
	userHandler = NewUserHandler(userUseCase)
}

func GetReportHandler() *ReportHandler {
	return reportHandler
}

func GetAlertHandler() *AlertHandler {
	return alertHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}
