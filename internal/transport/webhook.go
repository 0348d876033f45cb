package transport

import (
	"encoding/xml"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/msalvatierra/bodegabot/internal/conversation"
	"github.com/msalvatierra/bodegabot/pkg/logger"
	"go.uber.org/zap"
)

// twiml is the channel-native markup wrapping one text reply and optionally
// one media attachment.
type twiml struct {
	XMLName xml.Name     `xml:"Response"`
	Message twimlMessage `xml:"Message"`
}

type twimlMessage struct {
	Body  string   `xml:"Body"`
	Media []string `xml:"Media,omitempty"`
}

type WebhookHandler struct {
	engine *conversation.Engine
	logger logger.ZapLogger
}

func NewWebhookHandler(engine *conversation.Engine, log logger.ZapLogger) *WebhookHandler {
	return &WebhookHandler{engine: engine, logger: log}
}

// Register mounts the webhook route on the app.
func (h *WebhookHandler) Register(app *fiber.App) {
	app.Post("/webhook", h.handle)
}

func (h *WebhookHandler) handle(c *fiber.Ctx) error {
	body := c.FormValue("Body")
	from := c.FormValue("From")
	sender := NormalizeSender(from)

	if sender == "" {
		return c.Status(fiber.StatusBadRequest).SendString("missing From")
	}

	h.logger.Info("message received",
		zap.String("sender", sender),
		zap.Int("length", len(body)))

	reply := h.engine.Handle(c.UserContext(), sender, body)

	resp := twiml{Message: twimlMessage{Body: reply.Text}}
	if reply.MediaURL != "" {
		resp.Message.Media = []string{reply.MediaURL}
	}

	out, err := xml.Marshal(resp)
	if err != nil {
		h.logger.Error("twiml marshal failed", zap.Error(err))
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	c.Set(fiber.HeaderContentType, "text/xml")
	return c.Send(append([]byte(xml.Header), out...))
}

// NormalizeSender strips the channel prefix and the leading country-code
// symbol from the webhook's From address, leaving the bare sender identity
// used as tenancy key.
func NormalizeSender(from string) string {
	s := strings.TrimSpace(from)
	s = strings.TrimPrefix(s, "whatsapp:")
	s = strings.TrimPrefix(s, "+")
	return s
}
