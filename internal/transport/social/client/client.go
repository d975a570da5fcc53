package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

const RouteRelations = "/api/relations"

// Константы минимального и максимально значения в заголовке Retry-After.
const (
	minRetryAfter     = 1
	maxRetryAfter     = 120
	defaultRetryAfter = 60
)

// Relations отношения юзера к хосту счета.
type Relations struct {
	Friends bool `json:"friends"`
	Invited bool `json:"invited"`
}

// HTTPClient клиент социального сервиса.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) HTTPClient {
	return HTTPClient{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
	}
}

// GetRelations запрашивает, дружит ли userID с hostID и приглашен ли он в счет billID.
// При ответе сервера со статусом отличным от http.StatusOK, возвращает ошибку StatusCodeError, или
// TooManyRequestError в случае http.StatusTooManyRequests.
//
//nolint:nonamedreturns
func (c HTTPClient) GetRelations(
	ctx context.Context,
	hostID, userID, billID int64,
) (relations *Relations, err error) {
	query := url.Values{}
	query.Set("host", strconv.FormatInt(hostID, 10))
	query.Set("user", strconv.FormatInt(userID, 10))
	query.Set("bill", strconv.FormatInt(billID, 10))
	reqURL := c.baseURL + RouteRelations + "?" + query.Encode()

	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if reqErr != nil {
		return nil, fmt.Errorf("create request: %s", reqErr.Error())
	}

	resp, doErr := c.httpClient.Do(req)
	if doErr != nil {
		return nil, fmt.Errorf("do request: %w", doErr)
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, NewTooManyRequestError(parseRetryAfter(resp.Header.Get("Retry-After")))
	}

	if resp.StatusCode != http.StatusOK {
		err = NewStatusCodeError(resp.StatusCode)
		return nil, err
	}

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		err = fmt.Errorf("read response: %s", readErr.Error())
		return nil, err
	}

	if jsonErr := json.Unmarshal(body, &relations); jsonErr != nil {
		err = fmt.Errorf("parse response: %s", jsonErr.Error())
		return nil, err
	}

	return relations, nil
}

func parseRetryAfter(value string) time.Duration {
	minValue := decimal.NewFromInt(minRetryAfter)
	maxValue := decimal.NewFromInt(maxRetryAfter)

	retryAfter, parseErr := decimal.NewFromString(value)
	if parseErr != nil || retryAfter.LessThan(minValue) || retryAfter.GreaterThan(maxValue) {
		// в случае ошибки или неверных данных ставим 60 секунд
		retryAfter = decimal.NewFromInt(defaultRetryAfter)
	}
	return time.Duration(retryAfter.IntPart()) * time.Second
}
