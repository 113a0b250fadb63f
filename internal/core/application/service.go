package application

import (
	"context"
	errs "errors"
	"fmt"
	"time"

	"github.com/fluentlabs-xyz/fvmbridge/internal/core/domain"
	"github.com/fluentlabs-xyz/fvmbridge/internal/core/ports"
	"github.com/fluentlabs-xyz/fvmbridge/pkg/errors"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const maxAllocationAttempts = 16

type service struct {
	// services
	repoManager ports.RepoManager
	bridge      ports.BalanceBridge
	executor    ports.TxExecutor
	scheduler   ports.SchedulerService
	alerts      ports.Alerts

	// config
	baseAsset     domain.AssetId
	escrow        domain.Address
	auditInterval time.Duration
}

// NewService returns the bridge service. The executor, the scheduler and the alerts publisher
// are optional: without the executor the execution calls fail, without the scheduler the
// conservation audit only runs on demand.
func NewService(
	repoManager ports.RepoManager,
	executor ports.TxExecutor,
	scheduler ports.SchedulerService,
	alerts ports.Alerts,
	baseAsset domain.AssetId,
	escrow domain.Address,
	auditInterval time.Duration,
) (Service, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if escrow == (domain.Address{}) {
		return nil, fmt.Errorf("missing escrow address")
	}
	if auditInterval > 0 && scheduler == nil {
		return nil, fmt.Errorf("audit interval set but scheduler is missing")
	}

	return &service{
		repoManager:   repoManager,
		bridge:        newAccountBridge(repoManager.Accounts()),
		executor:      executor,
		scheduler:     scheduler,
		alerts:        alerts,
		baseAsset:     baseAsset,
		escrow:        escrow,
		auditInterval: auditInterval,
	}, nil
}

func (s *service) Start() errors.Error {
	s.repoManager.Events().RegisterEventsHandler(domain.BridgeTopic, logEvents)

	if s.scheduler == nil || s.auditInterval <= 0 {
		return nil
	}

	s.scheduler.Start()
	if err := s.scheduler.ScheduleRecurringTask(s.auditInterval, s.runAudit); err != nil {
		return errors.INTERNAL_ERROR.Wrap(err)
	}
	log.Infof("conservation audit scheduled every %s", s.auditInterval)
	return nil
}

func (s *service) Stop() {
	if s.scheduler != nil && s.auditInterval > 0 {
		s.scheduler.Stop()
		log.Info("stopped scheduler")
	}
	s.repoManager.Events().ClearRegisteredHandlers()
	if s.executor != nil {
		s.executor.Close()
		log.Info("closed connection with executor")
	}
	s.repoManager.Close()
	log.Info("closed connection to db")
}

// runInTx runs fn in a repo manager transaction. Typed errors returned by fn are propagated as
// they are, any other failure becomes a STORE_FAILURE.
func (s *service) runInTx(
	ctx context.Context, fn func(ctx context.Context) errors.Error,
) errors.Error {
	err := s.repoManager.RunInTx(ctx, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			return err
		}
		return nil
	})
	if err == nil {
		return nil
	}

	var typedErr errors.Error
	if errs.As(err, &typedErr) {
		return typedErr
	}
	return errors.STORE_FAILURE.Wrap(err).WithMetadata(map[string]any{"op": "commit"})
}

// checkCaller refuses calls made by the escrow account. Its transfers to itself are no-ops, so a
// deposit would mint unbacked coins and a withdrawal would burn coins without paying anyone.
func (s *service) checkCaller(caller domain.Address) errors.Error {
	if caller != s.escrow {
		return nil
	}
	return errors.ESCROW_CALLER.New("escrow account %s cannot call the bridge", caller).
		WithMetadata(errors.EscrowCallerMetadata{Escrow: caller.String()})
}

// mintCoin allocates a fresh identifier and inserts the coin under it. An identifier that is
// already taken is skipped for the next one, so a counter lagging behind the stored coins does not
// block every later call.
func (s *service) mintCoin(
	ctx context.Context, owner domain.Owner, amount uint64,
) (*domain.Coin, errors.Error) {
	var coinId domain.CoinId
	for range maxAllocationAttempts {
		txid, err := s.repoManager.Allocator().NextIndex(ctx)
		if err != nil {
			return nil, errors.STORE_FAILURE.Wrap(err).
				WithMetadata(map[string]any{"op": "allocate"})
		}

		coinId = domain.CoinId{TxId: txid, OutputIndex: 0}
		coin := domain.Coin{
			CoinId:  coinId,
			Owner:   owner,
			Amount:  amount,
			AssetId: s.baseAsset,
		}
		err = s.repoManager.Coins().InsertCoin(ctx, coin)
		if err == nil {
			return &coin, nil
		}
		if !errs.Is(err, domain.ErrCoinAlreadyExists) {
			return nil, errors.STORE_FAILURE.Wrap(err).
				WithMetadata(map[string]any{"op": "insert"})
		}
		log.Warnf("coin id %s already in use, allocating the next one", coinId)
	}

	return nil, errors.COIN_ID_COLLISION.New(
		"no free coin id after %d attempts, last tried %s", maxAllocationAttempts, coinId,
	).WithMetadata(errors.CoinMetadata{CoinId: coinId.String()})
}

// publishEvents appends the events of a committed call to the event log. The call already took
// effect, failures are only logged.
func (s *service) publishEvents(ctx context.Context, id string, events ...domain.Event) {
	if err := s.repoManager.Events().Save(ctx, domain.BridgeTopic, id, events); err != nil {
		log.WithError(err).Warnf("failed to save events of call %s", id)
	}
}

func requestId(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

func logEvents(events []domain.Event) {
	for _, event := range events {
		switch e := event.(type) {
		case domain.DepositProcessed:
			log.WithFields(log.Fields{
				"id":      e.Id,
				"coin_id": e.Coin.CoinId.String(),
				"amount":  e.Coin.Amount,
			}).Debug("event: deposit processed")
		case domain.WithdrawalProcessed:
			log.WithFields(log.Fields{
				"id":       e.Id,
				"spent":    len(e.SpentCoins),
				"amount":   e.Amount,
				"credited": e.Credited,
			}).Debug("event: withdrawal processed")
		}
	}
}
