package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"Ductcalc/internal/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memLeads struct {
	mu    sync.Mutex
	leads map[int]*repo.Lead
}

func (m *memLeads) CreateLead(context.Context, repo.Lead) (int, error)          { return 0, nil }
func (m *memLeads) ListLeads(context.Context, string, int) ([]repo.Lead, error) { return nil, nil }

func (m *memLeads) GetLead(_ context.Context, id int) (repo.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.leads[id]
	if !ok {
		return repo.Lead{}, repo.ErrNotFound
	}
	return *l, nil
}

func (m *memLeads) UpdateLeadStatus(_ context.Context, id int, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.leads[id]
	if !ok {
		return repo.ErrNotFound
	}
	l.Status = status
	return nil
}

func (m *memLeads) ListUnnotifiedLeads(context.Context) ([]repo.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []repo.Lead
	for _, l := range m.leads {
		if !l.Notified {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *memLeads) MarkLeadNotified(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leads[id].Notified = true
	return nil
}

type telegram struct {
	mu    sync.Mutex
	calls map[string][]map[string]any
}

func fakeTelegram(t *testing.T) (*telegram, *httptest.Server) {
	tg := &telegram{calls: map[string][]map[string]any{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		var payload map[string]any
		if r.Body != nil {
			json.NewDecoder(r.Body).Decode(&payload)
		}
		tg.mu.Lock()
		tg.calls[method] = append(tg.calls[method], payload)
		tg.mu.Unlock()
		w.Write([]byte(`{"ok":true,"result":[]}`))
	}))
	t.Cleanup(srv.Close)
	return tg, srv
}

func newBot(srv *httptest.Server, leads *memLeads) *Bot {
	return &Bot{Token: "t", AdminID: 42, Leads: leads, BaseURL: srv.URL, Client: srv.Client()}
}

func TestAnnounceLeads(t *testing.T) {
	tg, srv := fakeTelegram(t)
	cfm := 4000.0
	leads := &memLeads{leads: map[int]*repo.Lead{
		3: {ID: 3, Name: "Sam", Email: "sam@example.com", CFM: &cfm, Status: repo.LeadNew},
	}}
	bot := newBot(srv, leads)

	require.NoError(t, bot.announceLeads(context.Background()))
	require.NoError(t, bot.announceLeads(context.Background()))

	require.Len(t, tg.calls["sendMessage"], 1)
	msg := tg.calls["sendMessage"][0]
	assert.Contains(t, msg["text"], "#3")
	assert.Contains(t, msg["text"], "4000 CFM")
	assert.Contains(t, msg["reply_markup"].(map[string]any)["inline_keyboard"].([]any)[0].([]any)[1].(map[string]any)["callback_data"], "declined:3")
	assert.True(t, leads.leads[3].Notified)
}

func TestHandleCallback(t *testing.T) {
	tg, srv := fakeTelegram(t)
	leads := &memLeads{leads: map[int]*repo.Lead{
		3: {ID: 3, Email: "sam@example.com", Status: repo.LeadNew, Notified: true},
	}}
	bot := newBot(srv, leads)
	admin := &Message{MessageID: 9, Chat: Chat{ID: 42}}

	bot.handleCallback(context.Background(), &CallbackQuery{ID: "a", Data: "contacted:3", Message: admin})
	assert.Equal(t, repo.LeadContacted, leads.leads[3].Status)
	require.Len(t, tg.calls["editMessageText"], 1)
	assert.Contains(t, tg.calls["editMessageText"][0]["text"], "sam@example.com")

	bot.handleCallback(context.Background(), &CallbackQuery{ID: "b", Data: "declined:3", Message: &Message{Chat: Chat{ID: 7}}})
	assert.Equal(t, repo.LeadContacted, leads.leads[3].Status)

	bot.handleCallback(context.Background(), &CallbackQuery{ID: "c", Data: "approve:3", Message: admin})
	bot.handleCallback(context.Background(), &CallbackQuery{ID: "d", Data: "garbage", Message: admin})
	bot.handleCallback(context.Background(), &CallbackQuery{ID: "e", Data: "declined:99", Message: admin})
	assert.Equal(t, repo.LeadContacted, leads.leads[3].Status)

	answers := make([]string, 0, len(tg.calls["answerCallbackQuery"]))
	for _, c := range tg.calls["answerCallbackQuery"] {
		answers = append(answers, c["text"].(string))
	}
	assert.Equal(t, []string{"✅ Contacted", "Not allowed", "Unknown action", "Bad data", "Lead not found"}, answers)
}
