package jsonrpcexecutor

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/fluentlabs-xyz/fvmbridge/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

const (
	dryRunMethod = "fvm_dryRun"
	execMethod   = "fvm_exec"

	defaultCallTimeout = 30 * time.Second
)

type executionResult struct {
	ExitCode int32 `json:"exitCode"`
}

type executor struct {
	client  *rpc.Client
	timeout time.Duration
}

// NewExecutor dials the execution engine at the given http(s), ws(s) or ipc endpoint.
func NewExecutor(ctx context.Context, url string) (ports.TxExecutor, error) {
	if url == "" {
		return nil, fmt.Errorf("missing executor url")
	}
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial executor: %w", err)
	}
	return NewExecutorFromClient(client), nil
}

func NewExecutorFromClient(client *rpc.Client) ports.TxExecutor {
	return &executor{client, defaultCallTimeout}
}

func (e *executor) Execute(ctx context.Context, rawTx []byte, commit bool) (int32, error) {
	method := dryRunMethod
	if commit {
		method = execMethod
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var result executionResult
	if err := e.client.CallContext(ctx, &result, method, hexutil.Bytes(rawTx)); err != nil {
		return 0, fmt.Errorf("%s failed: %w", method, err)
	}

	log.WithFields(log.Fields{
		"method":    method,
		"size":      len(rawTx),
		"exit_code": result.ExitCode,
	}).Debug("executed tx")
	return result.ExitCode, nil
}

func (e *executor) Close() {
	e.client.Close()
}
