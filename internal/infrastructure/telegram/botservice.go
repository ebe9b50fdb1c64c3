package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	sharedConfig "github.com/clubgate/clubgate/internal/shared/config"
	"github.com/clubgate/clubgate/internal/shared/logger"
	"github.com/clubgate/clubgate/internal/shared/retry"
)

// BotService provides the Telegram Bot API operations used to gate channel
// membership: banning, unbanning, issuing single-use invite links and
// sending direct messages.
type BotService struct {
	config     sharedConfig.TelegramConfig
	httpClient *http.Client
	baseURL    string
	retry      retry.Policy
	logger     logger.Interface
}

// NewBotService creates a new Telegram bot service
func NewBotService(config sharedConfig.TelegramConfig) *BotService {
	return &BotService{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: fmt.Sprintf("https://api.telegram.org/bot%s", config.BotToken),
		retry:   retry.DefaultPolicy,
		logger:  logger.NewLogger().With("component", "telegram.bot"),
	}
}

// SetBaseURL overrides the API endpoint, used by tests.
func (s *BotService) SetBaseURL(baseURL string) {
	s.baseURL = baseURL
}

// SendMessage sends an HTML-formatted direct message to the user.
func (s *BotService) SendMessage(ctx context.Context, chatID int64, text string) error {
	body := map[string]any{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "HTML",
	}
	return s.makeRequest(ctx, "sendMessage", body, nil)
}

// BanChatMember removes the user from the gated channel. Telegram treats
// banning an absent user as success, so the call is safe to repeat.
func (s *BotService) BanChatMember(ctx context.Context, userID int64) error {
	body := map[string]any{
		"chat_id": s.config.ChannelID,
		"user_id": userID,
	}
	return s.makeRequest(ctx, "banChatMember", body, nil)
}

// UnbanChatMember lifts the ban so the user can accept a fresh invite link.
// only_if_banned keeps the call harmless for users who were never banned.
func (s *BotService) UnbanChatMember(ctx context.Context, userID int64) error {
	body := map[string]any{
		"chat_id":        s.config.ChannelID,
		"user_id":        userID,
		"only_if_banned": true,
	}
	return s.makeRequest(ctx, "unbanChatMember", body, nil)
}

type inviteLinkResult struct {
	InviteLink string `json:"invite_link"`
}

// CreateMemberInviteLink issues an invite URL for one user. It prefers a
// single-use link, degrades to a join-request link when the channel rejects
// member limits, and falls back to the channel's primary link as a last
// resort.
func (s *BotService) CreateMemberInviteLink(ctx context.Context, expireAt time.Time) (string, error) {
	body := map[string]any{
		"chat_id":      s.config.ChannelID,
		"member_limit": 1,
		"expire_date":  expireAt.Unix(),
	}

	var result inviteLinkResult
	err := s.makeRequest(ctx, "createChatInviteLink", body, &result)
	if err == nil {
		return result.InviteLink, nil
	}
	if !IsNonRetryable(err) {
		return "", err
	}

	s.logger.Warnw("single-use invite link rejected, trying join-request link",
		"error", err)

	body = map[string]any{
		"chat_id":              s.config.ChannelID,
		"creates_join_request": true,
		"expire_date":          expireAt.Unix(),
	}
	if err := s.makeRequest(ctx, "createChatInviteLink", body, &result); err == nil {
		return result.InviteLink, nil
	}

	s.logger.Warnw("join-request invite link rejected, exporting primary link")

	var primary string
	if err := s.makeRequest(ctx, "exportChatInviteLink", map[string]any{
		"chat_id": s.config.ChannelID,
	}, &primary); err != nil {
		return "", fmt.Errorf("all invite link methods failed: %w", err)
	}
	return primary, nil
}

// RevokeChatInviteLink invalidates a previously issued invite link.
func (s *BotService) RevokeChatInviteLink(ctx context.Context, inviteLink string) error {
	body := map[string]any{
		"chat_id":     s.config.ChannelID,
		"invite_link": inviteLink,
	}
	return s.makeRequest(ctx, "revokeChatInviteLink", body, nil)
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	ErrorCode   int             `json:"error_code"`
	Description string          `json:"description"`
	Parameters  *struct {
		RetryAfter int `json:"retry_after"`
	} `json:"parameters"`
}

// makeRequest calls a Bot API method with bounded retries. 429 responses
// are retried after the hinted wait, request errors (400) and blocked
// bots (403) are not retried at all.
func (s *BotService) makeRequest(ctx context.Context, method string, body map[string]any, out any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	return retry.Do(ctx, s.retry, func(ctx context.Context) error {
		return s.doRequest(ctx, method, jsonBody, out)
	})
}

func (s *BotService) doRequest(ctx context.Context, method string, jsonBody []byte, out any) error {
	url := fmt.Sprintf("%s/%s", s.baseURL, method)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return retry.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var result apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if !result.OK {
		apiErr := &APIError{
			ErrorCode:   result.ErrorCode,
			Description: result.Description,
		}
		if result.Parameters != nil {
			apiErr.RetryAfterSec = result.Parameters.RetryAfter
		}
		if IsNonRetryable(apiErr) {
			return retry.Permanent(apiErr)
		}
		return apiErr
	}

	if out != nil && len(result.Result) > 0 {
		if err := json.Unmarshal(result.Result, out); err != nil {
			return retry.Permanent(fmt.Errorf("failed to decode result: %w", err))
		}
	}

	return nil
}
