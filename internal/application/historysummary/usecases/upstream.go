package usecases

import (
	"context"
	"errors"
	"net/http"

	apperrors "github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/errors"
)

const (
	// DefaultUpstreamName labels model failures that carry no service error name.
	DefaultUpstreamName = "BedrockError"
	// GenericFailureMessage is shown for any failure without a more specific message.
	GenericFailureMessage = "要約の生成中にエラーが発生しました"
)

// NamedError is implemented by model adapters whose errors carry a service error name
// such as ThrottlingException.
type NamedError interface {
	error
	UpstreamName() string
}

type upstreamMapping struct {
	code    int
	message string
}

var upstreamMappings = map[string]upstreamMapping{
	"ThrottlingException":         {http.StatusTooManyRequests, "APIリクエスト制限に達しました。しばらく待ってから再試行してください。"},
	"TooManyRequestsException":    {http.StatusTooManyRequests, "APIリクエスト制限に達しました。しばらく待ってから再試行してください。"},
	"ValidationException":         {http.StatusBadRequest, "リクエストが不正です。"},
	"AccessDeniedException":       {http.StatusForbidden, "Bedrock APIへのアクセスが拒否されました。"},
	"ModelTimeoutException":       {http.StatusGatewayTimeout, "Bedrock APIがタイムアウトしました。"},
	"TimeoutError":                {http.StatusGatewayTimeout, "Bedrock APIがタイムアウトしました。"},
	"ServiceUnavailableException": {http.StatusServiceUnavailable, "Bedrock APIが一時的に利用できません。"},
}

// UpstreamName extracts the service error name from err.
func UpstreamName(err error) string {
	var named NamedError
	if errors.As(err, &named) && named.UpstreamName() != "" {
		return named.UpstreamName()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "TimeoutError"
	}
	return DefaultUpstreamName
}

// MapUpstreamError converts a model failure into the user-facing error. The service
// error name and raw message are kept for diagnostics.
func MapUpstreamError(err error) *apperrors.AppError {
	name := UpstreamName(err)
	m, ok := upstreamMappings[name]
	if !ok {
		m = upstreamMapping{http.StatusInternalServerError, GenericFailureMessage}
	}
	return apperrors.NewUpstreamError(m.code, name, m.message, err.Error())
}
