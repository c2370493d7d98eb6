// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PoojithGuntaka/CivicConnect/assistant"
	"github.com/PoojithGuntaka/CivicConnect/models"
	"github.com/PoojithGuntaka/CivicConnect/testutil"
)

func newTestChatHandler(gen *testutil.StubGenerator) *ChatHandler {
	return NewChatHandler(assistant.NewRegistry(assistant.New(gen), 10))
}

func startConversation(t *testing.T, handler *ChatHandler) models.ConversationResponse {
	t.Helper()

	w := httptest.NewRecorder()
	handler.StartConversation(w, testutil.MakeRequest("POST", "/chat", nil, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.ConversationResponse
	testutil.AssertJSON(t, w, &resp)
	return resp
}

func getConversation(t *testing.T, handler *ChatHandler, id string) models.ConversationResponse {
	t.Helper()

	req := testutil.MakeRequest("GET", "/chat/"+id, nil, nil)
	req.SetPathValue("id", id)
	w := httptest.NewRecorder()
	handler.GetConversation(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ConversationResponse
	testutil.AssertJSON(t, w, &resp)
	return resp
}

func sendMessage(handler *ChatHandler, id, text string) *httptest.ResponseRecorder {
	req := testutil.MakeRequest("POST", "/chat/"+id+"/messages", models.SendMessageRequest{Text: text}, nil)
	req.SetPathValue("id", id)
	w := httptest.NewRecorder()
	handler.SendMessage(w, req)
	return w
}

func TestStartConversation(t *testing.T) {
	handler := newTestChatHandler(&testutil.StubGenerator{Text: "hi"})

	resp := startConversation(t, handler)

	if resp.ConversationID == "" {
		t.Fatal("Expected a conversation id")
	}
	if len(resp.Messages) != 1 {
		t.Fatalf("Expected only the greeting, got %d messages", len(resp.Messages))
	}
	if resp.Messages[0].Sender != models.SenderBot || resp.Messages[0].Text != assistant.Greeting {
		t.Errorf("Unexpected greeting %+v", resp.Messages[0])
	}
}

func TestSendMessage(t *testing.T) {
	tests := []struct {
		name           string
		gen            *testutil.StubGenerator
		text           string
		expectedStatus int
		expectedReply  string
		expectedError  bool
	}{
		{
			name:           "live reply",
			gen:            &testutil.StubGenerator{Text: "Recycling is collected on Tuesdays."},
			text:           "When is recycling picked up?",
			expectedStatus: http.StatusOK,
			expectedReply:  "Recycling is collected on Tuesdays.",
		},
		{
			name:           "empty model reply",
			gen:            &testutil.StubGenerator{Text: ""},
			text:           "Hello?",
			expectedStatus: http.StatusOK,
			expectedReply:  assistant.FallbackEmpty,
			expectedError:  true,
		},
		{
			name:           "model failure",
			gen:            &testutil.StubGenerator{Err: errors.New("503 from upstream")},
			text:           "Hello?",
			expectedStatus: http.StatusOK,
			expectedReply:  assistant.FallbackError,
			expectedError:  true,
		},
		{
			name:           "blank message",
			gen:            &testutil.StubGenerator{Text: "unused"},
			text:           "   ",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestChatHandler(tt.gen)
			conv := startConversation(t, handler)

			w := sendMessage(handler, conv.ConversationID, tt.text)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusOK {
				if tt.gen.Calls() != 0 {
					t.Error("Rejected message must not reach the model")
				}
				return
			}

			var resp models.SendMessageResponse
			testutil.AssertJSON(t, w, &resp)

			if resp.UserMessage.Text != tt.text || resp.UserMessage.Sender != models.SenderUser {
				t.Errorf("Unexpected user message %+v", resp.UserMessage)
			}
			if resp.BotMessage.Text != tt.expectedReply {
				t.Errorf("Expected reply %q, got %q", tt.expectedReply, resp.BotMessage.Text)
			}
			if resp.BotMessage.IsError != tt.expectedError {
				t.Errorf("Expected is_error=%v", tt.expectedError)
			}
		})
	}
}

func TestGetConversation(t *testing.T) {
	gen := &testutil.StubGenerator{Text: "ok"}
	handler := newTestChatHandler(gen)
	conv := startConversation(t, handler)

	for _, text := range []string{"q1", "q2"} {
		testutil.AssertStatus(t, sendMessage(handler, conv.ConversationID, text), http.StatusOK)
	}

	req := testutil.MakeRequest("GET", "/chat/"+conv.ConversationID, nil, nil)
	req.SetPathValue("id", conv.ConversationID)
	w := httptest.NewRecorder()
	handler.GetConversation(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.ConversationResponse
	testutil.AssertJSON(t, w, &resp)

	var senders []string
	for _, m := range resp.Messages {
		senders = append(senders, m.Sender)
	}
	if got := strings.Join(senders, ","); got != "bot,user,bot,user,bot" {
		t.Errorf("Unexpected transcript order %s", got)
	}

	// The second question carries the greeting, q1 and its answer as context.
	history := gen.LastRequest().Contents[0].Text
	if history != "Context History: bot: "+assistant.Greeting+"\nuser: q1\nbot: ok" {
		t.Errorf("Unexpected history turn %q", history)
	}
}

func TestUnknownConversation(t *testing.T) {
	handler := newTestChatHandler(&testutil.StubGenerator{Text: "ok"})

	req := testutil.MakeRequest("GET", "/chat/missing", nil, nil)
	req.SetPathValue("id", "missing")
	w := httptest.NewRecorder()
	handler.GetConversation(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)

	testutil.AssertStatus(t, sendMessage(handler, "missing", "hello"), http.StatusNotFound)
}

func TestSendMessage_BusyWhileAnswering(t *testing.T) {
	gen := &testutil.StubGenerator{Text: "done", Release: make(chan struct{})}
	registry := assistant.NewRegistry(assistant.New(gen), 10)
	handler := NewChatHandler(registry)
	conv := startConversation(t, handler)
	c, _ := registry.Get(conv.ConversationID)

	first := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		first <- sendMessage(handler, conv.ConversationID, "first")
	}()

	deadline := time.Now().Add(2 * time.Second)
	for !c.Busy() {
		if time.Now().After(deadline) {
			t.Fatal("First message never went in flight")
		}
		time.Sleep(time.Millisecond)
	}

	testutil.AssertStatus(t, sendMessage(handler, conv.ConversationID, "second"), http.StatusConflict)

	if snap := getConversation(t, handler, conv.ConversationID); !snap.Pending {
		t.Error("Expected pending while the first message is answered")
	}

	close(gen.Release)
	testutil.AssertStatus(t, <-first, http.StatusOK)

	if snap := getConversation(t, handler, conv.ConversationID); snap.Pending {
		t.Error("Expected pending to clear once answered")
	}

	if n := len(c.Messages()); n != 3 {
		t.Errorf("Expected greeting plus one exchange, got %d messages", n)
	}
}
