// Package config provides configuration management for the Rift Edge engine.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("provider", validateProvider)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateProvider validates the odds provider selection
func validateProvider(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "pandascore", "mock":
		return true
	default:
		return false
	}
}

// validateCrossField enforces constraints spanning multiple sections
func validateCrossField(cfg *Config) error {
	if cfg.Provider.Name == "pandascore" && cfg.Provider.Token == "" {
		return fmt.Errorf("provider.token is required when provider.name is pandascore")
	}
	if cfg.Provider.Name == "pandascore" && cfg.Provider.BaseURL == "" {
		return fmt.Errorf("provider.base_url is required when provider.name is pandascore")
	}
	if cfg.Stats.Mode == "download" && cfg.Stats.DownloadURL == "" {
		return fmt.Errorf("stats.download_url is required when stats.mode is download")
	}
	if cfg.Notification.TelegramToken != "" && cfg.Notification.TelegramChatID == 0 {
		return fmt.Errorf("notification.telegram_chat_id is required when a Telegram token is set")
	}
	return nil
}

// formatValidationErrors produces a readable multi-error message
func formatValidationErrors(errs validator.ValidationErrors) error {
	messages := make([]string, 0, len(errs))
	for _, fe := range errs {
		messages = append(messages, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
}
