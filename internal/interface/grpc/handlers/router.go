package handlers

import (
	"context"
	"encoding/hex"
	errs "errors"
	"fmt"
	"sync"

	"github.com/fluentlabs-xyz/fvmbridge/internal/core/application"
	"github.com/fluentlabs-xyz/fvmbridge/internal/core/domain"
	"github.com/fluentlabs-xyz/fvmbridge/pkg/errors"
	"github.com/fluentlabs-xyz/fvmbridge/pkg/fvmabi"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type callResult struct {
	requestId string
	method    fvmabi.Method
	exitCode  int32
	deposit   *application.DepositResult
	withdraw  *application.WithdrawResult
	err       errors.Error
}

// router dispatches call data to the processor matching its selector. Calls are serialized,
// every processor call runs in its own storage transaction.
type router struct {
	svc   application.Service
	mu    sync.Mutex
	calls metric.Int64Counter
}

func newRouter(svc application.Service) *router {
	calls, err := otel.Meter("fvmbridge/router").Int64Counter(
		"fvmbridge.calls",
		metric.WithDescription("Number of routed calls by method and exit code"),
	)
	if err != nil {
		log.WithError(err).Warn("failed to create calls counter")
	}
	return &router{svc: svc, calls: calls}
}

func (r *router) route(ctx context.Context, call callContext, data []byte) callResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	if call.requestId == "" {
		call.requestId = uuid.NewString()
	}
	result := callResult{requestId: call.requestId}

	method, selector, message, err := fvmabi.SplitCallData(data)
	result.method = method
	if err != nil {
		if errs.Is(err, fvmabi.ErrUnknownSelector) {
			result.exitCode = int32(application.ExitCodeUnknownSelector)
		} else {
			result.exitCode = int32(application.ExitCodeMalformedInput)
		}
		result.err = malformedMessage(selector, data, err)
		r.logResult(ctx, call, result)
		return result
	}

	switch method {
	case fvmabi.MethodDeposit:
		r.deposit(ctx, call, selector, message, &result)
	case fvmabi.MethodWithdraw:
		r.withdraw(ctx, call, selector, message, &result)
	case fvmabi.MethodDryRun, fvmabi.MethodExec:
		code, err := r.svc.Execute(ctx, message, method == fvmabi.MethodExec)
		if err != nil {
			result.exitCode = int32(application.ExitCodeAborted)
			result.err = err
			break
		}
		result.exitCode = code
	}

	r.logResult(ctx, call, result)
	return result
}

func (r *router) deposit(
	ctx context.Context, call callContext, selector uint32, message []byte, result *callResult,
) {
	msg, err := fvmabi.DecodeDeposit(message)
	if err != nil {
		result.exitCode = int32(application.ExitCodeMalformedInput)
		result.err = malformedMessage(selector, message, err)
		return
	}

	res, verr := r.svc.Deposit(ctx, application.DepositRequest{
		RequestId: call.requestId,
		Caller:    call.caller,
		Recipient: domain.OwnerFromAddress(domain.Address(msg.Recipient)),
		Value:     call.value,
	})
	if verr != nil {
		result.exitCode = int32(application.ExitCodeAborted)
		result.err = verr
		return
	}
	result.exitCode = int32(res.Status)
	result.deposit = res
}

func (r *router) withdraw(
	ctx context.Context, call callContext, selector uint32, message []byte, result *callResult,
) {
	msg, err := fvmabi.DecodeWithdraw(message)
	if err != nil {
		result.exitCode = int32(application.ExitCodeMalformedInput)
		result.err = malformedMessage(selector, message, err)
		return
	}

	coinIds := make([]domain.CoinId, 0, len(msg.Utxos))
	for _, utxo := range msg.Utxos {
		coinIds = append(coinIds, domain.CoinId{
			TxId:        domain.TxId(utxo.TxId),
			OutputIndex: utxo.OutputIndex,
		})
	}

	res, verr := r.svc.Withdraw(ctx, application.WithdrawRequest{
		RequestId: call.requestId,
		Caller:    call.caller,
		CoinIds:   coinIds,
		Amount:    msg.Amount,
	})
	if verr != nil {
		result.exitCode = int32(application.ExitCodeAborted)
		result.err = verr
		return
	}
	result.exitCode = int32(application.ExitCodeOk)
	result.withdraw = res
}

func (r *router) logResult(ctx context.Context, call callContext, result callResult) {
	if r.calls != nil {
		r.calls.Add(ctx, 1, metric.WithAttributes(
			attribute.String("method", result.method.String()),
			attribute.Int("exit_code", int(result.exitCode)),
		))
	}

	if result.err != nil {
		result.err.Log().WithFields(log.Fields{
			"id":        result.requestId,
			"caller":    call.caller.String(),
			"method":    result.method.String(),
			"exit_code": result.exitCode,
		}).Warnf("call aborted: %s", result.err)
		return
	}
	log.WithFields(log.Fields{
		"id":        result.requestId,
		"method":    result.method.String(),
		"exit_code": result.exitCode,
	}).Debug("call completed")
}

func malformedMessage(selector uint32, message []byte, err error) errors.Error {
	return errors.MALFORMED_MESSAGE.Wrap(err).WithMetadata(errors.MalformedMessageMetadata{
		Selector: fmt.Sprintf("0x%08x", selector),
		Message:  hex.EncodeToString(message),
	})
}
