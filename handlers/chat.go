// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"

	"github.com/PoojithGuntaka/CivicConnect/assistant"
	"github.com/PoojithGuntaka/CivicConnect/middleware"
	"github.com/PoojithGuntaka/CivicConnect/models"
)

type ChatHandler struct {
	registry *assistant.Registry
}

func NewChatHandler(registry *assistant.Registry) *ChatHandler {
	return &ChatHandler{registry: registry}
}

// StartConversation handles POST /chat
func (h *ChatHandler) StartConversation(w http.ResponseWriter, r *http.Request) {
	c := h.registry.Start()

	middleware.JSONResponse(w, http.StatusCreated, models.ConversationResponse{
		ConversationID: c.ID(),
		Messages:       c.Messages(),
	})
}

// GetConversation handles GET /chat/{id}
func (h *ChatHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	c, ok := h.conversation(w, r)
	if !ok {
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ConversationResponse{
		ConversationID: c.ID(),
		Messages:       c.Messages(),
		Pending:        c.Busy(),
	})
}

// SendMessage handles POST /chat/{id}/messages. Model failures still answer
// 200 with the fallback text in a bot message marked is_error.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	c, ok := h.conversation(w, r)
	if !ok {
		return
	}

	var req models.SendMessageRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	userMsg, botMsg, err := c.Send(r.Context(), req.Text)
	switch {
	case errors.Is(err, assistant.ErrEmptyMessage):
		middleware.ErrorResponse(w, http.StatusBadRequest, "text is required")
		return
	case errors.Is(err, assistant.ErrBusy):
		middleware.ErrorResponse(w, http.StatusConflict, "Still answering the previous message")
		return
	case err != nil:
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to send message")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SendMessageResponse{
		UserMessage: userMsg,
		BotMessage:  botMsg,
	})
}

func (h *ChatHandler) conversation(w http.ResponseWriter, r *http.Request) (*assistant.Conversation, bool) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return nil, false
	}

	c, ok := h.registry.Get(id)
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Conversation not found")
		return nil, false
	}
	return c, true
}
