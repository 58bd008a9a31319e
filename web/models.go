/* models.go
 * Contains the configuration, server and request types of the frame HTTP API
 */

package web

import (
	"l2match/api/api"
)

// Config holds the configuration for the web server
type Config struct {
	Addr           string
	API            *api.API
	AllowedOrigins []string
}

// Server is the HTTP server that serves the frame
type Server struct {
	api *api.API
}

// AnswerRequest is the body of POST /api/quiz/answer
type AnswerRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// RecordRequest is the body of POST /api/result/record. Address is the connected wallet, empty when none is.
type RecordRequest struct {
	Address string `json:"address"`
}

// SendRequest is the body of POST /api/result/send
type SendRequest struct {
	Address     string `json:"address"`
	Destination string `json:"destination"`
}
