package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/procrastinate-app/procrastinate_bot/internal/model"
	"github.com/procrastinate-app/procrastinate_bot/internal/schedule"
)

// Client HTTP-клиент REST API ProcrastiNATE.
//
// Вся бизнес-логика (разрешение конфликтов, генерация расписаний, XP)
// живёт на бэкенде; клиент только отправляет запросы и разбирает ответы.
// Ошибки не ретраятся: неуспех одной операции терминален для неё и не
// трогает закэшированное состояние вызывающего.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient создаёт клиент бэкенда; baseURL может быть пустым, тогда
// каждый вызов вернёт ошибку конфигурации до любого сетевого запроса
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// ErrNotConfigured возвращается до сетевого вызова при отсутствии
// адреса бэкенда или токена
var ErrNotConfigured = fmt.Errorf("backend URL or token is not set")

// checkConfigured проверяет конфигурацию до любого сетевого вызова
func (c *Client) checkConfigured(token string) error {
	if c.baseURL == "" || token == "" {
		return ErrNotConfigured
	}
	return nil
}

// Login обменивает логин и пароль на bearer токен (форма, как у OAuth2)
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	if c.baseURL == "" {
		return "", ErrNotConfigured
	}

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var tok tokenResponse
	if err := c.do(req, &tok); err != nil {
		return "", err
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("login response has no access token")
	}
	return tok.AccessToken, nil
}

// Register регистрирует новый аккаунт на бэкенде
func (c *Client) Register(ctx context.Context, username, email, pwd string) error {
	if c.baseURL == "" {
		return ErrNotConfigured
	}
	return c.postJSON(ctx, "/register", "", RegisterRequest{
		Username: username,
		Email:    email,
		Pwd:      pwd,
	}, nil)
}

// Fetch загружает встречи, задания и дела за интервал [start, end]
func (c *Client) Fetch(ctx context.Context, token string, start, end time.Time) (*model.FetchResponse, error) {
	if err := c.checkConfigured(token); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("start_time", schedule.FormatBackendTime(start))
	params.Set("end_time", schedule.FormatBackendTime(end))
	params.Set("meetings", "true")
	params.Set("assignments", "true")
	params.Set("chores", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/fetch?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build fetch request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var resp model.FetchResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Schedule отправляет корзину планирования и получает кандидатов расписания
func (c *Client) Schedule(ctx context.Context, token string, reqBody ScheduleRequest) (*model.PotentialSchedulesData, error) {
	if err := c.checkConfigured(token); err != nil {
		return nil, err
	}
	var data model.PotentialSchedulesData
	if err := c.postJSON(ctx, "/schedule", token, reqBody, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Reschedule просит бэкенд перепланировать задание или дело
func (c *Client) Reschedule(ctx context.Context, token string, reqBody RescheduleRequest) (*model.PotentialSchedulesData, error) {
	if err := c.checkConfigured(token); err != nil {
		return nil, err
	}
	var data model.PotentialSchedulesData
	if err := c.postJSON(ctx, "/reschedule", token, reqBody, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// SetSchedule фиксирует выбранный кандидат; объект отправляется дословно
func (c *Client) SetSchedule(ctx context.Context, token string, chosen *model.PotentialSchedule) error {
	if err := c.checkConfigured(token); err != nil {
		return err
	}
	return c.postJSON(ctx, "/setSchedule", token, chosen, nil)
}

// UpdateMeeting меняет одно вхождение встречи или все будущие
func (c *Client) UpdateMeeting(ctx context.Context, token string, reqBody UpdateMeetingRequest) error {
	if err := c.checkConfigured(token); err != nil {
		return err
	}
	return c.postJSON(ctx, "/update", token, reqBody, nil)
}

// Delete удаляет вхождение встречи, задания или дела
func (c *Client) Delete(ctx context.Context, token string, reqBody DeleteRequest) error {
	if err := c.checkConfigured(token); err != nil {
		return err
	}
	return c.postJSON(ctx, "/delete", token, reqBody, nil)
}

// MarkSessionCompleted отмечает рабочий блок выполненным
func (c *Client) MarkSessionCompleted(ctx context.Context, token string, reqBody MarkCompletedRequest) error {
	if err := c.checkConfigured(token); err != nil {
		return err
	}
	return c.postJSON(ctx, "/markSessionCompleted", token, reqBody, nil)
}

// GetLevel получает уровень, опыт и достижения пользователя
func (c *Client) GetLevel(ctx context.Context, token string) (*model.LevelInfo, error) {
	if err := c.checkConfigured(token); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/getLevel", nil)
	if err != nil {
		return nil, fmt.Errorf("build getLevel request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var info model.LevelInfo
	if err := c.do(req, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// postJSON отправляет JSON-тело и при необходимости разбирает ответ
func (c *Client) postJSON(ctx context.Context, path, token string, body, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path,
		bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.do(req, out)
}

// do выполняет запрос; не-2xx превращается в ошибку с текстом ответа
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn("Backend request failed",
			zap.String("path", req.URL.Path),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("%s %s: status %d: %s",
			req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(text)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response %s: %w", req.URL.Path, err)
	}
	return nil
}
