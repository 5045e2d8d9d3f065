package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pratyushashukla/IP-BE/forms"
	"github.com/pratyushashukla/IP-BE/middleware"
	"github.com/pratyushashukla/IP-BE/service"
)

// AuthController handles the account side of the session lifecycle:
// signup, login, logout and the password-reset code flow.
type AuthController struct {
	auth *service.AuthService
}

var authForm = new(forms.AuthForm)

// NewAuthController creates and returns a new AuthController instance
func NewAuthController(auth *service.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Signup registers a new staff account
func (ctrl AuthController) Signup(c *gin.Context) {
	var form forms.SignupForm

	if err := c.ShouldBindJSON(&form); err != nil {
		c.AbortWithStatusJSON(http.StatusNotAcceptable, gin.H{"message": authForm.Message(err)})
		return
	}

	if _, err := ctrl.auth.Signup(c.Request.Context(), form); err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Email is already registered"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Error while signing up"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Signup Successfull, Login to continue"})
}

// Login verifies credentials, activates the session and returns the
// initial credential in both the authtoken header and the body
func (ctrl AuthController) Login(c *gin.Context) {
	var form forms.LoginForm

	if err := c.ShouldBindJSON(&form); err != nil {
		c.AbortWithStatusJSON(http.StatusNotAcceptable, gin.H{"message": authForm.Message(err)})
		return
	}

	user, token, err := ctrl.auth.Login(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.AbortWithStatusJSON(http.StatusNotAcceptable, gin.H{"message": "Invalid login details"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Error while logging in"})
		return
	}

	c.Header(middleware.TokenHeader, token)
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "authtoken": token, "user": user})
}

// Logout ends the authenticated session; any credential presented
// afterwards is rejected until the next login
func (ctrl AuthController) Logout(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "User not logged in"})
		return
	}

	if err := ctrl.auth.Logout(c.Request.Context(), identity.UserID); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Error while logging out"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// ForgotPassword mails a reset code to the account's email
func (ctrl AuthController) ForgotPassword(c *gin.Context) {
	ctrl.sendResetCode(c)
}

// ResendCode regenerates and re-sends the reset code
func (ctrl AuthController) ResendCode(c *gin.Context) {
	ctrl.sendResetCode(c)
}

func (ctrl AuthController) sendResetCode(c *gin.Context) {
	var form forms.ForgotPasswordForm

	if err := c.ShouldBindJSON(&form); err != nil {
		c.AbortWithStatusJSON(http.StatusNotAcceptable, gin.H{"message": authForm.Message(err)})
		return
	}

	if err := ctrl.auth.ForgotPassword(c.Request.Context(), form.Email); err != nil {
		if errors.Is(err, service.ErrUnknownUser) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Error while sending the verification code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent to your email"})
}

// VerifyCode checks a previously mailed reset code
func (ctrl AuthController) VerifyCode(c *gin.Context) {
	var form forms.VerifyCodeForm

	if err := c.ShouldBindJSON(&form); err != nil {
		c.AbortWithStatusJSON(http.StatusNotAcceptable, gin.H{"message": authForm.Message(err)})
		return
	}

	if err := ctrl.auth.VerifyCode(c.Request.Context(), form.Email, form.Code); err != nil {
		ctrl.resetFlowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Code verified successfully"})
}

// ResetPassword completes the reset flow with a new password
func (ctrl AuthController) ResetPassword(c *gin.Context) {
	var form forms.ResetPasswordForm

	if err := c.ShouldBindJSON(&form); err != nil {
		c.AbortWithStatusJSON(http.StatusNotAcceptable, gin.H{"message": authForm.Message(err)})
		return
	}

	if err := ctrl.auth.ResetPassword(c.Request.Context(), form.Email, form.Code, form.Password); err != nil {
		ctrl.resetFlowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully, Login to continue"})
}

func (ctrl AuthController) resetFlowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownUser):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "User not found"})
	case errors.Is(err, service.ErrResetCodeInvalid):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired verification code"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong, please try again later"})
	}
}
