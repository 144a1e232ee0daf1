package http

import (
	"context"
	"net/http"
	"time"

	"classifieds/pkg/logger"
	"classifieds/services/marketplace/internal/entity"
	"classifieds/services/marketplace/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// TokenResolver turns a query-string token into a caller for websocket
// clients, which cannot set headers.
type TokenResolver interface {
	Actor(ctx context.Context, token string) (entity.Actor, error)
}

type MessageHandler struct {
	messageUseCase usecase.MessageUseCase
	resolver       TokenResolver
	logger         *logger.Logger
}

func NewMessageHandler(messageUseCase usecase.MessageUseCase, resolver TokenResolver, logger *logger.Logger) *MessageHandler {
	return &MessageHandler{
		messageUseCase: messageUseCase,
		resolver:       resolver,
		logger:         logger,
	}
}

type SendMessageRequest struct {
	ToUserID  string `json:"to_user_id" binding:"required"`
	ListingID string `json:"listing_id" binding:"required"`
	Content   string `json:"content" binding:"required"`
}

// SendMessage godoc
// @Summary      Send a message about a listing
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body SendMessageRequest true "Message"
// @Success      200  {object}  entity.Message
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /messages [post]
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	message, err := h.messageUseCase.SendMessage(c.Request.Context(), actorFrom(c), usecase.SendMessageInput{
		ToUserID:  req.ToUserID,
		ListingID: req.ListingID,
		Content:   req.Content,
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to send message")
		return
	}
	c.JSON(http.StatusOK, message)
}

// ListMessages godoc
// @Summary      Sent and received messages, newest first
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  entity.Message
// @Router       /messages [get]
func (h *MessageHandler) ListMessages(c *gin.Context) {
	messages, err := h.messageUseCase.ListMessages(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch messages")
		return
	}
	c.JSON(http.StatusOK, messagesOrEmpty(messages))
}

// GetConversation godoc
// @Summary      Messages about one listing, oldest first
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        listing_id path string true "Listing ID"
// @Success      200  {array}  entity.Message
// @Router       /messages/conversation/{listing_id} [get]
func (h *MessageHandler) GetConversation(c *gin.Context) {
	messages, err := h.messageUseCase.Conversation(c.Request.Context(), actorFrom(c), c.Param("listing_id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch conversation")
		return
	}
	c.JSON(http.StatusOK, messagesOrEmpty(messages))
}

// MarkRead godoc
// @Summary      Mark a received message read
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Message ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /messages/{id}/read [put]
func (h *MessageHandler) MarkRead(c *gin.Context) {
	if err := h.messageUseCase.MarkRead(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err, "Failed to update message")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Message marked as read"})
}

// HandleWebSocket godoc
// @Summary      Live message stream
// @Description  Pushes each new message addressed to the caller as JSON.
// @Tags         messages
// @Param        token query string true "Bearer token"
// @Router       /ws [get]
func (h *MessageHandler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	actor, err := h.resolver.Actor(c.Request.Context(), token)
	if err != nil {
		respondError(c, h.logger, err, "Failed to authenticate")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	inbox, err := h.messageUseCase.Subscribe(ctx, actor)
	if err != nil {
		respondError(c, h.logger, err, "Failed to subscribe")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade connection to WebSocket: %v", err)
		return
	}
	defer conn.Close()

	h.logger.Info("WebSocket connected for user %s", actor.UserID)

	go func() {
		defer cancel()
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.logger.Warn("WebSocket read error: %v", err)
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket disconnected for user %s", actor.UserID)
			return
		case message, ok := <-inbox:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(message); err != nil {
				h.logger.Error("Failed to write WebSocket message: %v", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func messagesOrEmpty(messages []*entity.Message) []*entity.Message {
	if messages == nil {
		return []*entity.Message{}
	}
	return messages
}
