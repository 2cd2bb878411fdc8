package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fixlyhq/fixly-api/internal/auth"
	"github.com/fixlyhq/fixly-api/internal/models"
	"github.com/fixlyhq/fixly-api/internal/store"
)

type SignupRequest struct {
	FullName    string `json:"fullName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Password    string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// authResponse is the shape returned by every signup/login endpoint.
func authResponse(token string, summary models.AccountSummary) gin.H {
	return gin.H{"success": true, "token": token, "user": summary}
}

// ClientSignup registers a customer account.
func (h *Handler) ClientSignup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	hashed, err := h.Passwords.Hash(req.Password)
	if err != nil {
		log.Printf("ClientSignup: hashing failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Client registration failed"})
		return
	}

	client := &models.Client{
		FullName:    req.FullName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    hashed,
	}
	if err := h.Clients.Insert(c.Request.Context(), client); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Email already in use"})
			return
		}
		log.Printf("ClientSignup: insert failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Client registration failed"})
		return
	}

	token, err := h.Tokens.Issue(client.ID.Hex(), client.Email, models.RoleClient)
	if err != nil {
		log.Printf("ClientSignup: token issue failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Client registration failed"})
		return
	}

	c.JSON(http.StatusCreated, authResponse(token, models.AccountSummary{
		ID:          client.ID.Hex(),
		Email:       client.Email,
		FullName:    client.FullName,
		Role:        models.RoleClient,
		PhoneNumber: client.PhoneNumber,
	}))
}

// AdminSignup registers an operator account. Admins are verified by
// default.
func (h *Handler) AdminSignup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	hashed, err := h.Passwords.Hash(req.Password)
	if err != nil {
		log.Printf("AdminSignup: hashing failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Admin registration failed"})
		return
	}

	admin := &models.Admin{
		FullName:    req.FullName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    hashed,
		IsVerified:  true,
	}
	if err := h.Admins.Insert(c.Request.Context(), admin); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Email already in use"})
			return
		}
		log.Printf("AdminSignup: insert failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Admin registration failed"})
		return
	}

	token, err := h.Tokens.Issue(admin.ID.Hex(), admin.Email, models.RoleAdmin)
	if err != nil {
		log.Printf("AdminSignup: token issue failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Admin registration failed"})
		return
	}

	c.JSON(http.StatusCreated, authResponse(token, models.AccountSummary{
		ID:          admin.ID.Hex(),
		Email:       admin.Email,
		FullName:    admin.FullName,
		Role:        models.RoleAdmin,
		PhoneNumber: admin.PhoneNumber,
	}))
}

// Login authenticates any of the three account kinds. The locator probes
// clients, then providers, then admins; an unknown email and a wrong
// password collapse into the same response.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	account, err := h.Locator.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("Login: lookup failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Login failed"})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
		return
	}

	if !h.Passwords.Verify(req.Password, account.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
		return
	}

	token, err := h.Tokens.Issue(account.ID.Hex(), account.Email, account.Role)
	if err != nil {
		log.Printf("Login: token issue failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, authResponse(token, account.Summary()))
}

// AdminLogin authenticates against the admins collection only.
func (h *Handler) AdminLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	admin, err := h.Admins.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("AdminLogin: lookup failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Admin login failed"})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid admin credentials"})
		return
	}

	if !h.Passwords.Verify(req.Password, admin.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid admin credentials"})
		return
	}

	token, err := h.Tokens.Issue(admin.ID.Hex(), admin.Email, models.RoleAdmin)
	if err != nil {
		log.Printf("AdminLogin: token issue failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Admin login failed"})
		return
	}

	c.JSON(http.StatusOK, authResponse(token, models.AccountSummary{
		ID:          admin.ID.Hex(),
		Email:       admin.Email,
		FullName:    admin.FullName,
		Role:        models.RoleAdmin,
		PhoneNumber: admin.PhoneNumber,
	}))
}

// forgotPasswordMessage is returned whether or not the email is registered,
// so the endpoint cannot be used to enumerate accounts. Only the side
// effect (mail sent or not) differs.
const forgotPasswordMessage = "If that email is registered, a password reset link has been sent."

// ForgotPassword issues a single-use recovery token for a client account
// and mails the reset link.
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	rawToken, client, err := h.Reset.Request(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"success": true, "message": forgotPasswordMessage})
			return
		}
		log.Printf("ForgotPassword: request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not process request. Try again later."})
		return
	}

	resetURL := fmt.Sprintf("%s/auth/reset-password?token=%s", h.Cfg.FrontendURL, rawToken)
	ttlMin := int(h.Reset.TTL / time.Minute)
	body := fmt.Sprintf(`<h3>Hello %s,</h3>
<p>You requested to reset your password.</p>
<p>Click the link below to reset it:</p>
<a href="%s">%s</a>
<p><strong>This link will expire in %d minutes.</strong></p>`,
		client.FullName, resetURL, resetURL, ttlMin)

	if err := h.Mailer.Send(client.Email, "Password Reset Request", body); err != nil {
		log.Printf("ForgotPassword: mail delivery failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Email could not be sent. Try again later."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": forgotPasswordMessage})
}

// ResetPassword consumes a recovery token and installs the new password.
func (h *Handler) ResetPassword(c *gin.Context) {
	var req struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	client, err := h.Reset.Consume(c.Request.Context(), req.Token, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidResetToken) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid or expired token."})
			return
		}
		log.Printf("ResetPassword: consume failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to reset password. Please try again."})
		return
	}

	log.Printf("ResetPassword: password reset for account %s", client.ID.Hex())
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password reset successful. You can now log in."})
}
