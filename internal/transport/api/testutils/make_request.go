package testutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
)

type RequestOptions struct {
	headers map[string]string
}

type RequestArgs struct {
	Router http.Handler
	Method string
	URL    string
	Body   io.Reader
}

// MakeRequest прогоняет запрос через роутер без сети и возвращает записанный ответ.
func MakeRequest(args RequestArgs, opts ...func(*RequestOptions)) (*http.Response, error) {
	if args.Router == nil {
		return nil, fmt.Errorf("make request %s %s: router is nil", args.Method, args.URL)
	}
	options := RequestOptions{headers: make(map[string]string)}
	for _, opt := range opts {
		opt(&options)
	}

	request := httptest.NewRequest(args.Method, args.URL, args.Body)
	for k, v := range options.headers {
		request.Header.Set(k, v)
	}

	recorder := httptest.NewRecorder()
	args.Router.ServeHTTP(recorder, request)

	return recorder.Result(), nil
}

func WithHeader(name, value string) func(*RequestOptions) {
	return func(fn *RequestOptions) {
		fn.headers[name] = value
	}
}

// WithBearer добавляет заголовок Authorization с токеном сессии.
func WithBearer(token string) func(*RequestOptions) {
	return WithHeader("Authorization", "Bearer "+token)
}

// JSONBody сериализует v в тело запроса. Строка передается как есть, что позволяет слать заведомо битый JSON.
func JSONBody(v any) (io.Reader, error) {
	if raw, ok := v.(string); ok {
		return bytes.NewBufferString(raw), nil
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("json body: %s", err.Error())
	}
	return bytes.NewReader(payload), nil
}
