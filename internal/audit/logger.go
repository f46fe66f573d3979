package audit

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	appCtx "github.com/baechuer/real-time-ressys/services/account-service/internal/pkg/context"
)

// Logger provides structured audit logging for account business events.
type Logger struct {
	log zerolog.Logger
}

// New creates a new audit logger
func New(log zerolog.Logger) *Logger {
	return &Logger{
		log: log.With().Bool("audit", true).Logger(),
	}
}

// Record matches the hook expected by auth.Service.WithAudit.
// Email fields are masked; failures are logged at warn level.
func (l *Logger) Record(ctx context.Context, action string, fields map[string]string) {
	evt := l.log.Info()
	if strings.HasSuffix(action, "_failed") || strings.HasSuffix(action, "_conflict") {
		evt = l.log.Warn()
	}
	evt = evt.Str("action", action)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := fields[k]
		if k == "email" {
			v = MaskEmail(v)
		}
		evt = evt.Str(k, v)
	}

	if id := appCtx.GetRequestID(ctx); id != "" {
		evt = evt.Str("request_id", id)
	}
	evt.Msg("audit")
}

// MaskEmail partially masks email for privacy in logs
func MaskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if len(email) < 5 || at < 0 {
		return "***"
	}
	if at < 2 {
		return email[:1] + "***" + email[at:]
	}
	return email[:2] + "***" + email[at:]
}
