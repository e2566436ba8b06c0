package chat

import (
	"errors"
	"time"

	"github.com/getevo/evo/v2"
	"github.com/getevo/evo/v2/lib/log"
	"github.com/solacehr/solace-backend/apps/auth"
	"github.com/solacehr/solace-backend/apps/chain"
	"github.com/solacehr/solace-backend/apps/models"
	"github.com/solacehr/solace-backend/lib/response"
)

type Controller struct {
}

// SendMessageRequest is one employee chat message.
type SendMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

// SetModeRequest switches who handles the chat.
type SetModeRequest struct {
	Mode string `json:"mode" validate:"required,oneof=bot hr admin"`
}

// EscalateChatRequest carries a manual escalation reason.
type EscalateChatRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// Initiate activates the caller's pending session and returns the bot opener.
func (c Controller) Initiate(request *evo.Request) any {
	chat, appErr := c.loadOwnChat(request)
	if appErr != nil {
		return response.Error(*appErr)
	}

	opener, err := Initiate(request.Context.UserContext(), chat.ChatID)
	if err != nil {
		return gatewayError(chat.ChatID, err)
	}
	return response.OK(opener)
}

// SendMessage forwards an employee message to the bot.
func (c Controller) SendMessage(request *evo.Request) any {
	chat, appErr := c.loadOwnChat(request)
	if appErr != nil {
		return response.Error(*appErr)
	}

	var req SendMessageRequest
	if err := request.BodyParser(&req); err != nil || req.Message == "" {
		return response.Error(response.Validation("Message text is required"))
	}

	reply, err := SendMessage(request.Context.UserContext(), chat.ChatID, req.Message)
	if err != nil {
		return gatewayError(chat.ChatID, err)
	}
	return response.OK(reply)
}

// EndSession closes the caller's active session and returns the follow-up.
func (c Controller) EndSession(request *evo.Request) any {
	chat, appErr := c.loadOwnChat(request)
	if appErr != nil {
		return response.Error(*appErr)
	}

	next, err := EndSession(request.Context.UserContext(), chat.ChatID)
	if err != nil {
		return gatewayError(chat.ChatID, err)
	}
	return response.OK(next)
}

// GetMessages returns a chat transcript in order.
func (c Controller) GetMessages(request *evo.Request) any {
	actor := auth.CurrentUser(request)
	if actor == nil {
		return response.Error(response.ErrUnauthorized)
	}

	chat, err := models.GetChatByID(request.Param("chat_id").String())
	if err != nil {
		return response.Error(response.ErrChatNotFound)
	}
	if err := authorizeChat(actor, auth.ActionViewChat, chat); err != nil {
		return response.Error(response.ErrForbidden)
	}

	messages, err := models.GetMessages(chat.ChatID)
	if err != nil {
		return response.Error(response.ErrDatabaseError)
	}
	return response.List(messages, len(messages))
}

// SetMode switches a chat between bot, HR and admin handling. Staff only.
func (c Controller) SetMode(request *evo.Request) any {
	actor := auth.CurrentUser(request)
	if actor == nil {
		return response.Error(response.ErrUnauthorized)
	}

	chat, err := models.GetChatByID(request.Param("chat_id").String())
	if err != nil {
		return response.Error(response.ErrChatNotFound)
	}
	if err := authorizeChat(actor, auth.ActionManageChat, chat); err != nil {
		return response.Error(response.ErrForbidden)
	}

	var req SetModeRequest
	if err := request.BodyParser(&req); err != nil {
		return response.Error(response.ErrInvalidInput)
	}
	if err := chat.SetMode(req.Mode, time.Now().UTC()); err != nil {
		return response.Error(response.Validation(err.Error()))
	}
	if err := models.SaveChat(chat); err != nil {
		return response.Error(response.ErrDatabaseError)
	}
	return response.OK(chat)
}

// Escalate lets staff escalate a chat's chain manually, outside the bot's
// own escalation flag.
func (c Controller) Escalate(request *evo.Request) any {
	actor := auth.CurrentUser(request)
	if actor == nil {
		return response.Error(response.ErrUnauthorized)
	}

	chat, err := models.GetChatByID(request.Param("chat_id").String())
	if err != nil {
		return response.Error(response.ErrChatNotFound)
	}
	if err := authorizeChat(actor, auth.ActionManageChat, chat); err != nil {
		return response.Error(response.ErrForbidden)
	}

	var req EscalateChatRequest
	if err := request.BodyParser(&req); err != nil || req.Reason == "" {
		return response.Error(response.Validation("Escalation reason is required"))
	}

	session, err := models.GetSessionByChatID(chat.ChatID)
	if err != nil {
		return response.Error(response.ErrSessionNotFound)
	}
	linked, err := models.GetChainBySessionID(session.SessionID)
	if err != nil {
		return response.Error(response.ErrChainNotFound)
	}

	if err := chain.EscalateViaProbe(linked, req.Reason, 0); err != nil {
		return gatewayError(chat.ChatID, err)
	}

	chat.Escalate(req.Reason, time.Now().UTC())
	if err := models.SaveChat(chat); err != nil {
		return response.Error(response.ErrDatabaseError)
	}
	return response.OK(chat)
}

// loadOwnChat fetches the chat and checks the caller may converse in it.
func (c Controller) loadOwnChat(request *evo.Request) (*models.Chat, *response.AppError) {
	actor := auth.CurrentUser(request)
	if actor == nil {
		return nil, &response.ErrUnauthorized
	}

	chat, err := models.GetChatByID(request.Param("chat_id").String())
	if err != nil {
		return nil, &response.ErrChatNotFound
	}
	if err := authorizeChat(actor, auth.ActionUseChat, chat); err != nil {
		return nil, &response.ErrForbidden
	}
	return chat, nil
}

func authorizeChat(actor *auth.User, action auth.Action, chat *models.Chat) error {
	employee, err := models.GetEmployeeByID(chat.EmployeeID)
	if err != nil {
		return err
	}
	return auth.AuthorizeEmployee(actor, action, employee)
}

func gatewayError(chatID string, err error) any {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return response.Error(response.ErrChatNotFound)
	case errors.Is(err, models.ErrInvalidState), errors.Is(err, models.ErrConflict),
		errors.Is(err, ErrAwaitBotReply), errors.Is(err, ErrTooFewMessages):
		return response.Error(response.InvalidState(err.Error()))
	default:
		log.Error("[chat] gateway call for chat %s failed: %v", chatID, err)
		return response.Error(response.Upstream(err.Error()))
	}
}
