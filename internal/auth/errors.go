package auth

import (
	"context"
	"errors"
	"regexp"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/googleapi"

	"github.com/devstudy/devstudy-backend/internal/apperr"
)

var (
	authCodePattern    = regexp.MustCompile(`\(auth/[^)]+\)`)
	bracketCodePattern = regexp.MustCompile(`\[[^\]]*\]`)
	spacePattern       = regexp.MustCompile(`\s+`)
)

// Identity Toolkit error codes mapped to user-facing text.
var toolkitMessages = map[string]string{
	"EMAIL_EXISTS":                "An account with this email already exists.",
	"EMAIL_NOT_FOUND":             "No account found with this email.",
	"INVALID_PASSWORD":            "Incorrect password.",
	"INVALID_LOGIN_CREDENTIALS":   "Invalid email or password.",
	"INVALID_EMAIL":               "Please enter a valid email address.",
	"MISSING_PASSWORD":            "Please enter your password.",
	"WEAK_PASSWORD":               "Password should be at least 6 characters.",
	"USER_DISABLED":               "This account has been disabled.",
	"TOO_MANY_ATTEMPTS_TRY_LATER": "Too many attempts. Please try again later.",
	"OPERATION_NOT_ALLOWED":       "Password sign-in is disabled for this project.",
}

const fallbackMessage = "Authentication failed."

// Translate wraps a provider failure as an AuthError with a presentable
// message. Deadline errors stay transient.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	if apperr.IsAuth(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperr.Store("identity provider", err)
	}
	return &apperr.AuthError{Message: PresentableMessage(err), Err: err}
}

// PresentableMessage turns a provider error into text fit for display. It
// strips "Firebase:" prefixes, "(auth/...)" codes and bracketed codes.
func PresentableMessage(err error) string {
	if err == nil {
		return ""
	}

	var ae *apperr.AuthError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if msg, ok := toolkitMessages[toolkitCode(gerr.Message)]; ok {
			return msg
		}
		return clean(gerr.Message)
	}

	switch {
	case fbauth.IsEmailAlreadyExists(err):
		return toolkitMessages["EMAIL_EXISTS"]
	case fbauth.IsUserNotFound(err):
		return toolkitMessages["EMAIL_NOT_FOUND"]
	case fbauth.IsIDTokenExpired(err):
		return "Your session has expired. Please sign in again."
	case fbauth.IsIDTokenRevoked(err):
		return "You have been signed out. Please sign in again."
	case fbauth.IsIDTokenInvalid(err):
		return "Invalid session. Please sign in again."
	}

	if msg, ok := toolkitMessages[toolkitCode(err.Error())]; ok {
		return msg
	}
	return clean(err.Error())
}

// toolkitCode extracts "WEAK_PASSWORD" from "WEAK_PASSWORD : Password should be ...".
func toolkitCode(msg string) string {
	code := strings.TrimSpace(msg)
	if i := strings.IndexAny(code, " :"); i >= 0 {
		code = code[:i]
	}
	return code
}

func clean(msg string) string {
	msg = strings.ReplaceAll(msg, "Firebase:", "")
	msg = authCodePattern.ReplaceAllString(msg, "")
	msg = bracketCodePattern.ReplaceAllString(msg, "")
	msg = strings.TrimSpace(spacePattern.ReplaceAllString(msg, " "))
	msg = strings.TrimRight(msg, " .:")
	if msg == "" {
		return fallbackMessage
	}
	return msg + "."
}
