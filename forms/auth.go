package forms

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// AuthForm groups the validation message helpers for the auth endpoints
type AuthForm struct{}

// SignupForm contains the fields required to register a staff account
type SignupForm struct {
	Username  string `form:"username" json:"username" binding:"required,min=3,max=30"`
	Firstname string `form:"firstname" json:"firstname"`
	Lastname  string `form:"lastname" json:"lastname" binding:"required"`
	Email     string `form:"email" json:"email" binding:"required,email"`
	Password  string `form:"password" json:"password" binding:"required,min=6,max=50"`
	Phone     string `form:"phone" json:"phone" binding:"omitempty,phone"`
	Address   string `form:"address" json:"address"`
}

// LoginForm contains the fields required for user login
type LoginForm struct {
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required,min=6,max=50"`
}

// ForgotPasswordForm initiates (or re-sends) the reset-code flow
type ForgotPasswordForm struct {
	Email string `form:"email" json:"email" binding:"required,email"`
}

// VerifyCodeForm checks a previously mailed reset code
type VerifyCodeForm struct {
	Email string `form:"email" json:"email" binding:"required,email"`
	Code  string `form:"code" json:"code" binding:"required"`
}

// ResetPasswordForm completes the reset flow with a new password
type ResetPasswordForm struct {
	Email    string `form:"email" json:"email" binding:"required,email"`
	Code     string `form:"code" json:"code" binding:"required"`
	Password string `form:"password" json:"password" binding:"required,min=6,max=50"`
}

// Email returns the message for email field validation failures
func (f AuthForm) Email(tag string) (message string) {
	switch tag {
	case "required":
		return "Please enter your email"
	case "min", "max", "email":
		return "Please enter a valid email"
	default:
		return "Something went wrong, please try again later"
	}
}

// Password returns the message for password field validation failures
func (f AuthForm) Password(tag string) (message string) {
	switch tag {
	case "required":
		return "Please enter your password"
	case "min", "max":
		return "Your password should be between 6 and 50 characters"
	default:
		return "Something went wrong, please try again later"
	}
}

// Username returns the message for username field validation failures
func (f AuthForm) Username(tag string) (message string) {
	switch tag {
	case "required":
		return "Please enter a username"
	case "min", "max":
		return "Your username should be between 3 and 30 characters"
	default:
		return "Something went wrong, please try again later"
	}
}

// fieldMessage maps a single validation error to a user-facing message
func (f AuthForm) fieldMessage(err validator.FieldError) string {
	switch err.Field() {
	case "Email":
		return f.Email(err.Tag())
	case "Password":
		return f.Password(err.Tag())
	case "Username":
		return f.Username(err.Tag())
	case "Lastname":
		return "Please enter your last name"
	case "Phone":
		return "Please enter a valid phone number"
	case "Code":
		return "Please enter the verification code"
	default:
		return "Something went wrong, please try again later"
	}
}

// Message converts a binding error from any auth form into a single
// user-facing message
func (f AuthForm) Message(err error) string {
	switch err := err.(type) {
	case validator.ValidationErrors:
		for _, fieldErr := range err {
			return f.fieldMessage(fieldErr)
		}
	case *json.UnmarshalTypeError:
		return "Something went wrong, please try again later"
	default:
		return "Invalid request"
	}

	return "Something went wrong, please try again later"
}
