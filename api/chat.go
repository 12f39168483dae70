package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seo-optimizer/content-engine/assistant"
)

type chatRequest struct {
	ConversationID string `json:"conversationId"`
	Message        string `json:"message" binding:"required"`
}

// chat answers a question, opening a conversation when none is given
func (s *Server) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "message is required")
		return
	}

	var (
		conv  *assistant.Conversation
		reply assistant.Message
		err   error
	)
	if req.ConversationID == "" {
		conv, reply, err = s.assistant.Begin(c.Request.Context(), req.Message)
	} else if conv, err = s.assistant.Conversation(req.ConversationID); err == nil {
		reply, err = conv.Ask(c.Request.Context(), req.Message)
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	if s.metrics != nil {
		s.metrics.ChatMessages.Inc()
	}

	c.JSON(http.StatusOK, gin.H{
		"conversationId": conv.ID,
		"reply":          reply,
		"messages":       conv.Messages(),
	})
}

func (s *Server) chatHistory(c *gin.Context) {
	conv, err := s.assistant.Conversation(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversationId": conv.ID, "messages": conv.Messages()})
}

func (s *Server) endChat(c *gin.Context) {
	if _, err := s.assistant.Conversation(c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	s.assistant.End(c.Param("id"))
	c.Status(http.StatusNoContent)
}
