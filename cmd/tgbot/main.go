package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"Ductcalc/internal/repo"
)

type Update struct {
	UpdateID      int            `json:"update_id"`
	Message       *Message       `json:"message"`
	CallbackQuery *CallbackQuery `json:"callback_query"`
}

type Message struct {
	MessageID int    `json:"message_id"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

type Chat struct {
	ID int64 `json:"id"`
}

type CallbackQuery struct {
	ID      string   `json:"id"`
	Data    string   `json:"data"`
	Message *Message `json:"message"`
}

type UpdateResponse struct {
	OK     bool     `json:"ok"`
	Result []Update `json:"result"`
}

type InlineButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

type InlineKeyboard struct {
	InlineKeyboard [][]InlineButton `json:"inline_keyboard"`
}

const apiBase = "https://api.telegram.org"

// Bot posts new consultation leads to the admin chat and applies the
// status the admin picks.
type Bot struct {
	Token   string
	AdminID int64
	Leads   repo.LeadRepository
	BaseURL string
	Client  *http.Client
}

func main() {
	token := os.Getenv("TOKEN_BOT")
	peerStr := os.Getenv("ADMIN_PEER_ID")
	if token == "" || peerStr == "" {
		log.Fatal("TOKEN_BOT or ADMIN_PEER_ID missing")
	}
	adminID, err := strconv.ParseInt(peerStr, 10, 64)
	if err != nil {
		log.Fatal("ADMIN_PEER_ID must be a chat id")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := repo.Open(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal("database: ", err)
	}
	defer db.Close()

	bot := &Bot{
		Token:   token,
		AdminID: adminID,
		Leads:   repo.NewPostgresDB(db),
		BaseURL: apiBase,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
	bot.Run(ctx)
}

func (b *Bot) Run(ctx context.Context) {
	offset := 0
	for ctx.Err() == nil {
		if err := b.announceLeads(ctx); err != nil {
			log.Println("announce error:", err)
		}
		updates, err := b.getUpdates(ctx, offset)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				log.Println("getUpdates error:", err)
			}
			sleep(ctx, 2*time.Second)
			continue
		}
		for _, u := range updates {
			offset = u.UpdateID + 1
			if u.CallbackQuery != nil {
				b.handleCallback(ctx, u.CallbackQuery)
			}
		}
		sleep(ctx, time.Second)
	}
}

func (b *Bot) announceLeads(ctx context.Context) error {
	leads, err := b.Leads.ListUnnotifiedLeads(ctx)
	if err != nil {
		return err
	}
	for _, l := range leads {
		keyboard := InlineKeyboard{InlineKeyboard: [][]InlineButton{{
			{Text: "Contacted", CallbackData: fmt.Sprintf("%s:%d", repo.LeadContacted, l.ID)},
			{Text: "Decline", CallbackData: fmt.Sprintf("%s:%d", repo.LeadDeclined, l.ID)},
		}}}
		if err := b.call(ctx, "sendMessage", map[string]any{
			"chat_id":      b.AdminID,
			"text":         leadText(l),
			"reply_markup": keyboard,
		}); err != nil {
			return err
		}
		if err := b.Leads.MarkLeadNotified(ctx, l.ID); err != nil {
			return err
		}
	}
	return nil
}

func leadText(l repo.Lead) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "New consultation request #%d\n%s <%s>", l.ID, l.Name, l.Email)
	if l.Company != "" {
		fmt.Fprintf(&sb, "\nCompany: %s", l.Company)
	}
	if l.Phone != "" {
		fmt.Fprintf(&sb, "\nPhone: %s", l.Phone)
	}
	if l.Velocity != nil || l.Friction != nil || l.CFM != nil {
		sb.WriteString("\nSizing:")
		if l.CFM != nil {
			fmt.Fprintf(&sb, " %g CFM", *l.CFM)
		}
		if l.Velocity != nil {
			fmt.Fprintf(&sb, " @ %g ft/min", *l.Velocity)
		}
		if l.Friction != nil {
			fmt.Fprintf(&sb, " / %g in./100ft", *l.Friction)
		}
	}
	if l.Message != "" {
		fmt.Fprintf(&sb, "\n\n%s", l.Message)
	}
	return sb.String()
}

func (b *Bot) handleCallback(ctx context.Context, cb *CallbackQuery) {
	if cb.Message == nil || cb.Message.Chat.ID != b.AdminID {
		b.answerCallback(ctx, cb.ID, "Not allowed")
		return
	}
	status, idStr, ok := strings.Cut(cb.Data, ":")
	id, err := strconv.Atoi(idStr)
	if !ok || err != nil {
		b.answerCallback(ctx, cb.ID, "Bad data")
		return
	}
	if status != repo.LeadContacted && status != repo.LeadDeclined {
		b.answerCallback(ctx, cb.ID, "Unknown action")
		return
	}
	l, err := b.Leads.GetLead(ctx, id)
	if err != nil {
		b.answerCallback(ctx, cb.ID, "Lead not found")
		return
	}
	if err := b.Leads.UpdateLeadStatus(ctx, id, status); err != nil {
		log.Printf("lead %d status: %v", id, err)
		b.answerCallback(ctx, cb.ID, "DB error")
		return
	}

	mark := "✅ Contacted"
	if status == repo.LeadDeclined {
		mark = "❌ Declined"
	}
	b.answerCallback(ctx, cb.ID, mark)
	b.editMessage(ctx, cb.Message.Chat.ID, cb.Message.MessageID, fmt.Sprintf("%s lead #%d (%s)", mark, id, l.Email))
}

func (b *Bot) getUpdates(ctx context.Context, offset int) ([]Update, error) {
	url := fmt.Sprintf("%s/bot%s/getUpdates?timeout=20&offset=%d", b.BaseURL, b.Token, offset)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := b.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	var out UpdateResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, err
	}
	if !out.OK {
		return nil, fmt.Errorf("getUpdates: status %d", res.StatusCode)
	}
	return out.Result, nil
}

func (b *Bot) answerCallback(ctx context.Context, id, text string) {
	if err := b.call(ctx, "answerCallbackQuery", map[string]any{"callback_query_id": id, "text": text}); err != nil {
		log.Println("answerCallbackQuery error:", err)
	}
}

func (b *Bot) editMessage(ctx context.Context, chatID int64, messageID int, text string) {
	if err := b.call(ctx, "editMessageText", map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
		"text":       text,
	}); err != nil {
		log.Println("editMessageText error:", err)
	}
}

func (b *Bot) call(ctx context.Context, method string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/bot%s/%s", b.BaseURL, b.Token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(body)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := b.Client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: status %d", method, res.StatusCode)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
