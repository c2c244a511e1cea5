package handler

import (
	"github.com/labstack/echo/v4"

	"scamwatch/internal/usecase"
	"scamwatch/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{userUseCase: userUseCase}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Username string `json:"username" validate:"required,min=3,max=30"`
	Phone    string `json:"phone,omitempty"`
}

func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.Register(c.Request().Context(), usecase.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
		Phone:    req.Phone,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, user)
}

func (h *UserHandler) GetMe(c echo.Context) error {
	userID := c.Get("uid").(string)

	user, err := h.userUseCase.GetByID(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

type updatePreferencesRequest struct {
	Lat                  *float64  `json:"lat,omitempty" validate:"omitempty,latitude"`
	Lng                  *float64  `json:"lng,omitempty" validate:"omitempty,longitude"`
	AlertRadiusKm        *float64  `json:"alert_radius_km,omitempty"`
	SubscribedCategories *[]string `json:"subscribed_categories,omitempty"`
	Push                 *bool     `json:"push,omitempty"`
	Email                *bool     `json:"email,omitempty"`
	SMS                  *bool     `json:"sms,omitempty"`
	DeviceToken          *string   `json:"device_token,omitempty"`
}

func (h *UserHandler) UpdatePreferences(c echo.Context) error {
	var req updatePreferencesRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	user, err := h.userUseCase.UpdatePreferences(c.Request().Context(), userID, usecase.UpdatePreferencesInput{
		Lat:                  req.Lat,
		Lng:                  req.Lng,
		AlertRadiusKm:        req.AlertRadiusKm,
		SubscribedCategories: req.SubscribedCategories,
		Push:                 req.Push,
		Email:                req.Email,
		SMS:                  req.SMS,
		DeviceToken:          req.DeviceToken,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}
