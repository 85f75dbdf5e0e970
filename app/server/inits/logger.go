package inits

import (
	"fmt"
	"go.uber.org/zap"
)

func Logger(isProd bool) (l *zap.Logger, err error) {
	if isProd {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	return l, nil
}
