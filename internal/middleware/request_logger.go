package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/ticketing-core/internal/utils"
)

// RequestLogger logs every request once it has been served
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		client := utils.DescribeClient(c)
		status := c.Writer.Status()
		fields := logrus.Fields{
			"status":      status,
			"method":      c.Request.Method,
			"path":        path,
			"query":       query,
			"ip":          client.IP,
			"device_type": client.DeviceType,
			"latency_ms":  time.Since(start).Milliseconds(),
			"has_auth":    c.GetHeader("Authorization") != "",
		}
		if agent, ok := GetAgentContext(c); ok {
			fields["agent_id"] = agent.AgentID
		}

		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
			return
		}

		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}
