package composables

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/nextdoorextsolutions/roofline/pkg/constants"
)

var ErrNoLogger = errors.New("no logger found in context")

func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, constants.LoggerKey, logger)
}

func UseLogger(ctx context.Context) (*logrus.Entry, error) {
	logger := ctx.Value(constants.LoggerKey)
	if logger == nil {
		return nil, ErrNoLogger
	}
	return logger.(*logrus.Entry), nil
}
