// Package logging builds the zap logger used for submission outcomes.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"mentorform/internal/authform"
)

// New sets up a zap logger that writes to the console in a human readable format.
func New(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	prodConfig := zap.NewProductionConfig()
	prodConfig.Level = zap.NewAtomicLevelAt(lvl)
	prodConfig.Encoding = "console"
	prodConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	prodConfig.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	return prodConfig.Build()
}

// UserSink logs the user object returned by a successful submission.
func UserSink(logger *zap.Logger) authform.UserSink {
	return authform.UserSinkFunc(func(user map[string]any) {
		logger.Info("User:", zap.Any("user", user))
	})
}

// Outcome logs the result of one submission. Transport causes are logged here since they are
// never shown to the user.
func Outcome(logger *zap.Logger, o authform.Outcome) {
	fields := []zap.Field{
		zap.String("endpoint", o.Endpoint),
		zap.Stringer("outcome", o.Kind),
	}

	switch o.Kind {
	case authform.OutcomeNetworkError:
		logger.Warn("submission failed", append(fields, zap.Error(o.Err))...)
	case authform.OutcomeFailure:
		logger.Info("submission rejected", append(fields, zap.String("message", o.Notification.Message))...)
	case authform.OutcomeInvalid:
		logger.Debug("submission invalid", append(fields, zap.Any("fields", o.Invalid))...)
	default:
		logger.Debug("submission succeeded", fields...)
	}
}
