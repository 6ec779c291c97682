package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/classical-review/internal/application"
	"github.com/oksasatya/classical-review/internal/domain/entity"
	"github.com/oksasatya/classical-review/internal/interface/middleware"
	"github.com/oksasatya/classical-review/pkg/apperror"
	"github.com/oksasatya/classical-review/pkg/helpers"
	"github.com/oksasatya/classical-review/pkg/response"
	"github.com/oksasatya/classical-review/pkg/validation"
)

const maxAvatarBytes = 5 << 20

type AccountHandler struct {
	Svc     *application.AccountService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAccountHandler(svc *application.AccountService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AccountHandler {
	return &AccountHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,username"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type verifyRequest struct {
	Token string `json:"token" binding:"required"`
}

type identifierRequest struct {
	Identifier string `json:"identifier" binding:"required"`
}

type loginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type bioRequest struct {
	Bio string `json:"bio" binding:"max=1000"`
}

type tokenResponse struct {
	User         accountUser `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

// Register POST /api/account/register
func (h *AccountHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, h.Logger, validation.FromBinding(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusCreated, toAccountUser(u), "Account created. Check your email to verify it.", nil)
}

// Verify POST /api/account/verify
func (h *AccountHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, h.Logger, validation.FromBinding(err))
		return
	}
	u, err := h.Svc.VerifyEmail(c.Request.Context(), req.Token)
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, toAccountUser(u), "Email verified.", nil)
}

// ResendVerification POST /api/account/verify/resend
func (h *AccountHandler) ResendVerification(c *gin.Context) {
	var req identifierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, h.Logger, validation.FromBinding(err))
		return
	}
	if err := h.Svc.ResendVerification(c.Request.Context(), entity.ParseLoginIdentifier(req.Identifier)); err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.OK[any](c, http.StatusOK, nil, "Verification email sent.", nil)
}

// Login POST /api/account/login
func (h *AccountHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, h.Logger, validation.FromBinding(err))
		return
	}
	u, pair, err := h.Svc.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.OK(c, http.StatusOK, tokenResponse{
		User:         toAccountUser(u),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "Login successful.", expiryMeta(pair))
}

// Refresh POST /api/account/refresh reads the refresh token from the cookie
// or from the JSON body.
func (h *AccountHandler) Refresh(c *gin.Context) {
	token, _ := c.Cookie(helpers.RefreshCookie)
	if token == "" {
		var req refreshRequest
		_ = c.ShouldBindJSON(&req)
		token = req.RefreshToken
	}
	if token == "" {
		response.Fail(c, h.Logger, apperror.Authentication(errors.New("missing refresh token")))
		return
	}
	pair, _, err := h.Svc.Refresh(c.Request.Context(), token)
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.OK(c, http.StatusOK, gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "Token refreshed.", expiryMeta(pair))
}

// Logout POST /api/account/logout
func (h *AccountHandler) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), c.GetString(middleware.CtxUserIDKey)); err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	h.Cookies.Clear(c)
	response.OK[any](c, http.StatusOK, nil, "Logged out.", nil)
}

// Me GET /api/account/me
func (h *AccountHandler) Me(c *gin.Context) {
	u, err := h.Svc.Profile(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, toAccountUser(u), "Profile.", nil)
}

// UpdateBio PUT /api/account/bio
func (h *AccountHandler) UpdateBio(c *gin.Context) {
	var req bioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, h.Logger, validation.FromBinding(err))
		return
	}
	u, err := h.Svc.UpdateBio(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), req.Bio)
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, toAccountUser(u), "Bio updated.", nil)
}

// UploadAvatar POST /api/account/avatar (multipart field "avatar")
func (h *AccountHandler) UploadAvatar(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAvatarBytes)
	fh, err := c.FormFile("avatar")
	if err != nil {
		response.Fail(c, h.Logger, apperror.Validation("avatar", "avatar file is required (max 5MB)"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	defer f.Close()

	u, err := h.Svc.UploadAvatar(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), f, fh.Filename, fh.Header.Get("Content-Type"))
	if errors.Is(err, application.ErrAvatarsDisabled) {
		response.Abort(c, http.StatusServiceUnavailable, "Avatar uploads are not available.", nil)
		return
	}
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, toAccountUser(u), "Avatar updated.", nil)
}

func expiryMeta(pair application.TokenPair) map[string]any {
	return map[string]any{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	}
}
