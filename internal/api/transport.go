// internal/api/transport.go
package api

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// loggingTransport logs every request the client issues using Logrus.
// Logs the method, path, status and duration of each request.
type loggingTransport struct {
	next   http.RoundTripper
	logger *logrus.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := t.next.RoundTrip(req)

	duration := time.Since(start)
	fields := logrus.Fields{
		"method":   req.Method,
		"path":     req.URL.Path,
		"duration": duration,
	}
	if err != nil {
		fields["error"] = err
		t.logger.WithFields(fields).Warn("HTTP request failed")
		return nil, err
	}
	fields["status"] = resp.StatusCode
	t.logger.WithFields(fields).Debug("HTTP request")
	return resp, nil
}
