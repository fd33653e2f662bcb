package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mroshb/daymate/internal/config"
	"github.com/mroshb/daymate/internal/handlers"
	"github.com/mroshb/daymate/internal/metrics"
	"github.com/mroshb/daymate/internal/middleware"
	"github.com/mroshb/daymate/internal/services"
	"github.com/mroshb/daymate/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "handler_test_secret_with_32_chars_min"

type client struct {
	t      *testing.T
	server http.Handler
}

func newClient(t *testing.T) *client {
	t.Helper()

	cfg := &config.Config{JWTSecret: testSecret, TokenTTLHours: 1}
	db := testutil.NewDB(t)
	limiter := middleware.NewRateLimiter(1000, 1000, time.Minute)
	t.Cleanup(limiter.Stop)

	manager := handlers.NewHandlerManager(cfg, services.New(db, services.DefaultLimits()), metrics.New(), limiter)
	return &client{t: t, server: manager.Routes()}
}

func (c *client) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c.server.ServeHTTP(rec, req)
	return rec
}

func (c *client) register(username string) string {
	c.t.Helper()

	rec := c.do(http.MethodPost, "/api/users", "", map[string]string{"username": username})
	require.Equal(c.t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(c.t, resp.Token)
	return resp.Token
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func TestRequiresToken(t *testing.T) {
	c := newClient(t)

	rec := c.do(http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = c.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProposalFlow(t *testing.T) {
	c := newClient(t)
	alice := c.register("alice")
	bob := c.register("bob")

	rec := c.do(http.MethodPost, "/api/users/alice/days/2024-06-01/proposals", bob, map[string]string{"message": "dinner?"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var proposal struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Date   string `json:"date"`
	}
	decodeBody(t, rec, &proposal)
	assert.Equal(t, "PENDING", proposal.Status)
	assert.Equal(t, "2024-06-01", proposal.Date)

	rec = c.do(http.MethodGet, "/api/proposals/pending", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var pending []map[string]interface{}
	decodeBody(t, rec, &pending)
	require.Len(t, pending, 1)

	respondPath := fmt.Sprintf("/api/proposals/%s/respond", proposal.ID)

	rec = c.do(http.MethodPost, respondPath, bob, map[string]string{"status": "ACCEPTED"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = c.do(http.MethodPost, respondPath, alice, map[string]string{"status": "PENDING"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodPost, respondPath, alice, map[string]string{"status": "DECLINED"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = c.do(http.MethodPost, respondPath, alice, map[string]string{"status": "ACCEPTED"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	var conflict errorResponse
	decodeBody(t, rec, &conflict)
	assert.Equal(t, "INVALID_TRANSITION", conflict.Code)

	rec = c.do(http.MethodGet, "/api/conversations", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var inbox []struct {
		ID    string `json:"id"`
		Other struct {
			Username string `json:"username"`
		} `json:"other"`
		LastMessage struct {
			MessageType string `json:"message_type"`
		} `json:"last_message"`
	}
	decodeBody(t, rec, &inbox)
	require.Len(t, inbox, 1)
	assert.Equal(t, "bob", inbox[0].Other.Username)
	assert.Equal(t, "SYSTEM", inbox[0].LastMessage.MessageType)

	rec = c.do(http.MethodGet, "/api/conversations/"+inbox[0].ID+"/messages", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var messages []struct {
		Content        string `json:"content"`
		ProposalStatus string `json:"proposal_status"`
	}
	decodeBody(t, rec, &messages)
	require.Len(t, messages, 2)
	assert.Contains(t, messages[0].Content, "2024-06-01")
	assert.Equal(t, "DECLINED", messages[1].ProposalStatus)
}

func TestFriendOnlyGateOverHTTP(t *testing.T) {
	c := newClient(t)
	alice := c.register("alice")
	bob := c.register("bob")

	rec := c.do(http.MethodPut, "/api/me/meeting-policy", bob, map[string]bool{"friend_only": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = c.do(http.MethodPost, "/api/users/bob/days/2024-06-01/proposals", alice, map[string]string{})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = c.do(http.MethodGet, "/api/users/bob", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile struct {
		Relation   string `json:"relation"`
		CanPropose bool   `json:"can_propose"`
	}
	decodeBody(t, rec, &profile)
	assert.Equal(t, "NONE", profile.Relation)
	assert.False(t, profile.CanPropose)

	rec = c.do(http.MethodPost, "/api/friends/requests", alice, map[string]string{"username": "bob"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var request struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &request)

	rec = c.do(http.MethodPost, "/api/friends/requests", bob, map[string]string{"username": "alice"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = c.do(http.MethodPost, "/api/friends/requests/"+request.ID+"/respond", bob, map[string]bool{"accept": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = c.do(http.MethodPost, "/api/users/bob/days/2024-06-01/proposals", alice, map[string]string{})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestAvailabilityAndDay(t *testing.T) {
	c := newClient(t)
	alice := c.register("alice")
	bob := c.register("bob")

	rec := c.do(http.MethodPut, "/api/users/alice/days/2024-06-01", bob, map[string]string{"status": "OPEN"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = c.do(http.MethodPut, "/api/users/alice/days/2024-06-01", alice, map[string]string{"status": "SOMETIMES"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodPut, "/api/users/alice/days/2024-06-01", alice, map[string]string{"status": "OPEN", "note": "free after 6"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = c.do(http.MethodPost, "/api/users/alice/days/2024-06-01/comments", bob, map[string]string{"content": "drinks?"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = c.do(http.MethodGet, "/api/users/alice/days/2024-06-01", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var day struct {
		Entry struct {
			AvailabilityStatus string `json:"availability_status"`
			PersonalNote       string `json:"personal_note"`
		} `json:"entry"`
		Comments []struct {
			Content string `json:"content"`
		} `json:"comments"`
	}
	decodeBody(t, rec, &day)
	assert.Equal(t, "OPEN", day.Entry.AvailabilityStatus)
	assert.Equal(t, "free after 6", day.Entry.PersonalNote)
	require.Len(t, day.Comments, 1)
	assert.Equal(t, "drinks?", day.Comments[0].Content)

	rec = c.do(http.MethodGet, "/api/users/alice/days?month=2024-06-15", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var month struct {
		Entries []map[string]interface{} `json:"entries"`
	}
	decodeBody(t, rec, &month)
	assert.Len(t, month.Entries, 1)

	rec = c.do(http.MethodGet, "/api/users/alice/days/export?month=2024-06-01", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "alice-2024-06.xlsx")
	assert.NotZero(t, rec.Body.Len())

	rec = c.do(http.MethodGet, "/api/users/nobody/days/2024-06-01", bob, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMessagesOverHTTP(t *testing.T) {
	c := newClient(t)
	alice := c.register("alice")
	c.register("bob")
	carol := c.register("carol")

	rec := c.do(http.MethodPost, "/api/conversations", alice, map[string]string{"username": "bob"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var conversation struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &conversation)

	path := "/api/conversations/" + conversation.ID + "/messages"

	rec = c.do(http.MethodPost, path, alice, map[string]string{"content": "   "})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = c.do(http.MethodPost, path, alice, map[string]string{"content": "hello"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = c.do(http.MethodPost, path, carol, map[string]string{"content": "hi"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = c.do(http.MethodGet, path, carol, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = c.do(http.MethodPost, "/api/conversations", alice, map[string]string{"username": "alice"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = c.do(http.MethodGet, "/api/feed", alice, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	c := newClient(t)
	c.register("alice")

	rec := c.do(http.MethodPost, "/api/users", "", map[string]string{"username": "alice"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = c.do(http.MethodPost, "/api/users", "", map[string]string{"username": "a!"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
