package services

import "github.com/blogem/household-budget/models"

// fundLedger collects the signed balance deltas a mutation applies to
// funds. Deposit and expense call sites both route balance changes
// through it, so a fund touched twice in one mutation accumulates a
// single net adjustment and funds with a zero net delta produce no
// write and no audit row.
type fundLedger struct {
	funds []*models.Fund
}

// apply adds a signed delta to a fund's derived balance.
func (l *fundLedger) apply(fund *models.Fund, deltaCents int64) {
	if deltaCents == 0 {
		return
	}
	fund.BalanceCents += deltaCents
	for _, existing := range l.funds {
		if existing == fund {
			return
		}
	}
	l.funds = append(l.funds, fund)
}

// changed returns the funds whose balance now differs from the loaded
// state, ready for the transaction's update and change lists.
func (l *fundLedger) changed() []*models.Fund {
	var out []*models.Fund
	for _, fund := range l.funds {
		if len(models.ChangedColumns(fund)) > 0 {
			out = append(out, fund)
		}
	}
	return out
}
