/* handlers.go
 * Contains the JSON handlers of the frame API. Each handler resolves the session and calls one api.API method.
 */

package web

import (
	"errors"
	"log"
	"net/http"

	"l2match/api/logic"
	"l2match/api/quiz"

	"github.com/gin-gonic/gin"
)

// GetQuiz returns the current quiz view
func (s *Server) GetQuiz(c *gin.Context) {
	view, err := s.api.State(c.Request.Context(), sessionID(c))
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// PostAnswer answers the current question
func (s *Server) PostAnswer(c *gin.Context) {
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	view, err := s.api.Answer(c.Request.Context(), sessionID(c), req.Answer)
	if errors.Is(err, quiz.ErrQuizFinished) {
		c.JSON(http.StatusConflict, gin.H{"error": "Quiz already finished, reset to start again", "state": view})
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// PostReset restarts the quiz
func (s *Server) PostReset(c *gin.Context) {
	view, err := s.api.Reset(c.Request.Context(), sessionID(c))
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) GetTheme(c *gin.Context) {
	dark, err := s.api.Theme(c.Request.Context(), sessionID(c))
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"darkMode": dark})
}

func (s *Server) PostToggleTheme(c *gin.Context) {
	dark, err := s.api.ToggleTheme(c.Request.Context(), sessionID(c))
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"darkMode": dark})
}

// GetShare returns the share link, text and compose url of the session's result
func (s *Server) GetShare(c *gin.Context) {
	share, err := s.api.Share(c.Request.Context(), sessionID(c))
	if errors.Is(err, logic.ErrNoResult) {
		c.JSON(http.StatusNotFound, gin.H{"error": logic.MsgNoResultToSave})
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, share)
}

// PostRecord writes the session's result to the ledger
func (s *Server) PostRecord(c *gin.Context) {
	var req RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	hash, err := s.api.RecordResult(c.Request.Context(), sessionID(c), req.Address)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": logic.ClassifyRecordError(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"txHash": hash})
}

// PostSend messages the session's result to another address
func (s *Server) PostSend(c *gin.Context) {
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	err := s.api.SendResult(c.Request.Context(), sessionID(c), req.Address, req.Destination)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": logic.ClassifySendError(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": logic.MsgSendSucceeded})
}

func (s *Server) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// statusFor maps a record or send error to the response status
func statusFor(err error) int {
	switch {
	case errors.Is(err, logic.ErrInvalidAddress), errors.Is(err, logic.ErrSelfSend):
		return http.StatusBadRequest
	case errors.Is(err, logic.ErrNoResult):
		return http.StatusNotFound
	case errors.Is(err, logic.ErrWalletNotConnected):
		return http.StatusUnauthorized
	case errors.Is(err, logic.ErrUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}

func internalError(c *gin.Context, err error) {
	log.Printf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
