package application

import (
	"context"
	"time"

	"github.com/fluentlabs-xyz/fvmbridge/internal/core/domain"
	"github.com/fluentlabs-xyz/fvmbridge/internal/core/ports"
	"github.com/fluentlabs-xyz/fvmbridge/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const auditTimeout = 30 * time.Second

// Audit checks that the value locked in the escrow equals the supply of unspent coins converted
// to account units.
func (s *service) Audit(ctx context.Context) (*AuditReport, errors.Error) {
	info, err := s.GetSupply(ctx)
	if err != nil {
		return nil, err
	}

	expected := domain.ToAccountUnits(info.Supply)
	return &AuditReport{
		SupplyInfo: *info,
		Expected:   expected,
		Balanced:   expected.Eq(info.EscrowBalance),
	}, nil
}

func (s *service) runAudit() {
	ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
	defer cancel()

	report, err := s.Audit(ctx)
	if err != nil {
		err.Log().WithError(err).Error("conservation audit failed")
		s.publishAlert(ctx, ports.AuditFailure, map[string]any{"error": err.Error()})
		return
	}

	entry := log.WithFields(log.Fields{
		"supply":         report.Supply,
		"expected":       report.Expected.Dec(),
		"escrow_balance": report.EscrowBalance.Dec(),
	})
	if !report.Balanced {
		entry.Error("conservation audit: escrow balance does not match coin supply")
		s.publishAlert(ctx, ports.AuditImbalance, ports.AuditImbalanceAlert{
			AssetId:       report.AssetId.String(),
			Escrow:        report.Escrow.String(),
			Supply:        report.Supply,
			Expected:      report.Expected.Dec(),
			EscrowBalance: report.EscrowBalance.Dec(),
		})
		return
	}
	entry.Debug("conservation audit passed")
}

func (s *service) publishAlert(ctx context.Context, topic ports.Topic, message any) {
	if s.alerts == nil {
		return
	}
	if err := s.alerts.Publish(ctx, topic, message); err != nil {
		log.WithError(err).Warnf("failed to publish %s alert", topic)
	}
}
