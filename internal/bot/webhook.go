package bot

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Adiar1/Crackd/internal/telegram"
)

// Webhook receives updates from Telegram over HTTPS. The webhook path
// embeds a secret segment and Telegram echoes the secret token in a header;
// both are checked before an update is accepted.
type Webhook struct {
	client      *telegram.Client
	handler     *Handler
	secretPath  string
	secretToken string
}

func NewWebhook(client *telegram.Client, handler *Handler, secretPath, secretToken string) *Webhook {
	return &Webhook{
		client:      client,
		handler:     handler,
		secretPath:  secretPath,
		secretToken: secretToken,
	}
}

func (w *Webhook) Register(r *gin.Engine) {
	r.POST(fmt.Sprintf("/webhook/%s", w.secretPath), w.handleUpdate)
}

// Install points Telegram at this deployment's webhook URL.
func (w *Webhook) Install(baseURL string) error {
	url := fmt.Sprintf("%s/webhook/%s", baseURL, w.secretPath)
	if err := w.client.SetWebhook(url, w.secretToken); err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}
	log.Printf("bot: webhook installed at %s", url)
	return nil
}

func (w *Webhook) Uninstall() error {
	return w.client.DeleteWebhook()
}

func (w *Webhook) handleUpdate(c *gin.Context) {
	if w.secretToken != "" && c.GetHeader("X-Telegram-Bot-Api-Secret-Token") != w.secretToken {
		c.Status(http.StatusForbidden)
		return
	}

	var upd telegram.Update
	if err := c.ShouldBindJSON(&upd); err != nil {
		log.Printf("bot: malformed update: %v", err)
		c.Status(http.StatusBadRequest)
		return
	}

	// Handle on its own goroutine so a blocked interactive flow never
	// stalls Telegram's delivery loop.
	go w.handler.Handle(upd)
	c.Status(http.StatusOK)
}
