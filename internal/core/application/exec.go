package application

import (
	"context"

	"github.com/fluentlabs-xyz/fvmbridge/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func (s *service) Execute(ctx context.Context, rawTx []byte, commit bool) (int32, errors.Error) {
	if s.executor == nil {
		return 0, errors.EXECUTION_FAILED.New("execution engine not configured")
	}

	code, err := s.executor.Execute(ctx, rawTx, commit)
	if err != nil {
		return 0, errors.EXECUTION_FAILED.Wrap(err).
			WithMetadata(map[string]any{"commit": commit, "size": len(rawTx)})
	}

	log.WithFields(log.Fields{"commit": commit, "exit_code": code}).Debug("tx executed")
	return code, nil
}
