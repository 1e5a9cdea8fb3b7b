package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	. "itemtracker/internal/adapter/http/helper"
	"itemtracker/internal/core/model/request"
	"itemtracker/internal/core/model/response"
	"itemtracker/internal/core/port"
	"itemtracker/internal/core/util"
	"itemtracker/pkg/logger"
)

type AuthHandler struct {
	svc       port.AuthService
	tokens    port.TokenIssuer
	validator port.Validator
	Logger    *logger.LokiLogger
}

func NewAuthHandler(svc port.AuthService, tokens port.TokenIssuer, validator port.Validator, log *logger.LokiLogger) *AuthHandler {
	if log == nil {
		log = logger.Nop()
	}

	return &AuthHandler{svc: svc, tokens: tokens, validator: validator, Logger: log}
}

func (a *AuthHandler) RegisterByEmailAndPassword(c *gin.Context) {
	ctx, span := startHandlerSpan(c, "handler.auth.Register")
	defer span.End()

	params, err := util.BindJSON[request.SignUpRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := a.validator.ValidateStruct(params); err != nil {
		fail(ctx, c, span, a.Logger, "Error validating signup", err)
		return
	}

	user, err := a.svc.Registration(ctx, &params)

	if err != nil {
		fail(ctx, c, span, a.Logger, "Error registering user", err)
		return
	}

	SendSuccess(c, http.StatusCreated, response.UserResponse{
		UUID:      user.UUID.String(),
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	})
}

func (a *AuthHandler) AuthByEmailAndPassword(c *gin.Context) {
	ctx, span := startHandlerSpan(c, "handler.auth.Authenticate")
	defer span.End()

	params, err := util.BindJSON[request.LoginRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := a.validator.ValidateStruct(params); err != nil {
		fail(ctx, c, span, a.Logger, "Error validating login", err)
		return
	}

	user, err := a.svc.Authenticate(ctx, &params)

	if err != nil {
		fail(ctx, c, span, a.Logger, "Error authenticating user", err)
		return
	}

	token, err := a.tokens.CreateToken(user.ID)

	if err != nil {
		a.Logger.Ctx(ctx).Error("Failed to generate access token", zap.Error(err))
		SendInternalError(c, "Failed to generate access token")
		return
	}

	SendSuccess(c, http.StatusOK, response.TokenResponse{AccessToken: token, TokenType: "bearer"})
}
