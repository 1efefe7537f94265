package utils

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
)

// GenerateRateLimitKey creates a unique key for rate limiting
func GenerateRateLimitKey(userID, path string) string {
	return fmt.Sprintf("rl:%s:%s", userID, path)
}

// LogEvent logs an event with structured data
func LogEvent(eventType string, data map[string]interface{}) {
	logrus.WithFields(logrus.Fields(data)).Info(eventType)
}

// ParseInt safely parses a string to int with a fallback
func ParseInt(s string, fallback int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return i
}

// PaginatedResponse structure for paginated results
type PaginatedResponse struct {
	Data  interface{} `json:"data"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}
