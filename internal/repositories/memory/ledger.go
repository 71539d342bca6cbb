package memory

import (
	"sort"
	"time"

	"paygrow/internal/models"
	"paygrow/internal/repositories"
)

// LedgerStore implements repositories.LedgerRepository over a Store.
type LedgerStore struct {
	s  *Store
	tx *dataset // non-nil when bound to a transaction
}

func (l *LedgerStore) run(fn func(*dataset) error) error {
	if l.tx != nil {
		return fn(l.tx)
	}
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return fn(l.s.d)
}

func (l *LedgerStore) ExecuteInTransaction(fn func(repositories.LedgerRepository) error) error {
	if l.tx != nil {
		return fn(l)
	}
	l.s.mu.Lock()
	defer l.s.mu.Unlock()

	snapshot := l.s.d.clone()
	if err := fn(&LedgerStore{s: l.s, tx: l.s.d}); err != nil {
		l.s.d = snapshot
		return err
	}
	return nil
}

// ---- Accounts ----

func (l *LedgerStore) CreateAccount(acct *models.User) error {
	return l.run(func(d *dataset) error {
		acct.ID = d.nextID("account")
		acct.CreatedAt = time.Now()
		acct.UpdatedAt = acct.CreatedAt
		d.accounts[acct.ID] = *acct
		return nil
	})
}

func (l *LedgerStore) GetAccount(id uint) (*models.User, error) {
	var out models.User
	err := l.run(func(d *dataset) error {
		acct, ok := d.accounts[id]
		if !ok {
			return repositories.ErrAccountNotFound
		}
		out = acct
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (l *LedgerStore) GetAccountByPhone(phone string) (*models.User, error) {
	var out models.User
	err := l.run(func(d *dataset) error {
		for _, acct := range d.accounts {
			if acct.Phone == phone {
				out = acct
				return nil
			}
		}
		return repositories.ErrAccountNotFound
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (l *LedgerStore) GetAccountByReferralCode(code string) (*models.User, error) {
	var out models.User
	err := l.run(func(d *dataset) error {
		for _, acct := range d.accounts {
			if acct.ReferralCode == code {
				out = acct
				return nil
			}
		}
		return repositories.ErrAccountNotFound
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (l *LedgerStore) GetAccountForUpdate(id uint) (*models.User, error) {
	return l.GetAccount(id)
}

func (l *LedgerStore) SaveAccount(acct *models.User) error {
	return l.run(func(d *dataset) error {
		if _, ok := d.accounts[acct.ID]; !ok {
			return repositories.ErrAccountNotFound
		}
		acct.UpdatedAt = time.Now()
		d.accounts[acct.ID] = *acct
		return nil
	})
}

func (l *LedgerStore) ListAccounts() ([]models.User, error) {
	var out []models.User
	_ = l.run(func(d *dataset) error {
		for _, acct := range d.accounts {
			out = append(out, acct)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (l *LedgerStore) PlatformTotals() (*repositories.PlatformTotals, error) {
	totals := &repositories.PlatformTotals{}
	_ = l.run(func(d *dataset) error {
		for _, acct := range d.accounts {
			totals.TotalUsers++
			totals.TotalBalance = totals.TotalBalance.Add(acct.Balance)
			totals.TotalRecharge = totals.TotalRecharge.Add(acct.TotalRecharge)
			totals.TotalWithdraw = totals.TotalWithdraw.Add(acct.TotalWithdraw)
		}
		return nil
	})
	return totals, nil
}

// ---- Movements ----

func (l *LedgerStore) CreateMovement(m *models.Movement) error {
	return l.run(func(d *dataset) error {
		m.ID = d.nextID("movement")
		m.CreatedAt = time.Now()
		m.UpdatedAt = m.CreatedAt
		d.movements[m.ID] = *m
		return nil
	})
}

func (l *LedgerStore) GetMovement(id uint) (*models.Movement, error) {
	var out models.Movement
	err := l.run(func(d *dataset) error {
		m, ok := d.movements[id]
		if !ok {
			return repositories.ErrMovementNotFound
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (l *LedgerStore) GetMovementForUpdate(id uint) (*models.Movement, error) {
	return l.GetMovement(id)
}

func (l *LedgerStore) SaveMovement(m *models.Movement) error {
	return l.run(func(d *dataset) error {
		if _, ok := d.movements[m.ID]; !ok {
			return repositories.ErrMovementNotFound
		}
		m.UpdatedAt = time.Now()
		d.movements[m.ID] = *m
		return nil
	})
}

func (l *LedgerStore) ListMovementsByAccount(accountID uint, limit int) ([]models.Movement, error) {
	var out []models.Movement
	_ = l.run(func(d *dataset) error {
		for _, m := range d.movements {
			if m.UserID == accountID {
				out = append(out, m)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (l *LedgerStore) ListMovements(limit int) ([]models.Movement, error) {
	var out []models.Movement
	_ = l.run(func(d *dataset) error {
		for _, m := range d.movements {
			out = append(out, m)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (l *LedgerStore) ListPendingMovements() ([]models.Movement, error) {
	var out []models.Movement
	_ = l.run(func(d *dataset) error {
		for _, m := range d.movements {
			if m.Status == models.StatusPending || m.Status == models.StatusVerificationPending {
				out = append(out, m)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// ---- Withdrawal requests ----

func (l *LedgerStore) CreateWithdrawal(w *models.Withdrawal) error {
	return l.run(func(d *dataset) error {
		w.ID = d.nextID("withdrawal")
		w.CreatedAt = time.Now()
		w.UpdatedAt = w.CreatedAt
		d.withdrawals[w.ID] = *w
		return nil
	})
}

func (l *LedgerStore) GetWithdrawalForUpdate(id uint) (*models.Withdrawal, error) {
	var out models.Withdrawal
	err := l.run(func(d *dataset) error {
		w, ok := d.withdrawals[id]
		if !ok {
			return repositories.ErrWithdrawalNotFound
		}
		out = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (l *LedgerStore) SaveWithdrawal(w *models.Withdrawal) error {
	return l.run(func(d *dataset) error {
		if _, ok := d.withdrawals[w.ID]; !ok {
			return repositories.ErrWithdrawalNotFound
		}
		w.UpdatedAt = time.Now()
		d.withdrawals[w.ID] = *w
		return nil
	})
}

func (l *LedgerStore) ListWithdrawalsByAccount(accountID uint, limit int) ([]models.Withdrawal, error) {
	var out []models.Withdrawal
	_ = l.run(func(d *dataset) error {
		for _, w := range d.withdrawals {
			if w.UserID == accountID {
				out = append(out, w)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (l *LedgerStore) ListPendingWithdrawals() ([]repositories.PendingWithdrawal, error) {
	var out []repositories.PendingWithdrawal
	_ = l.run(func(d *dataset) error {
		for _, w := range d.withdrawals {
			if w.Status != models.WithdrawalPending {
				continue
			}
			pw := repositories.PendingWithdrawal{Withdrawal: w}
			if acct, ok := d.accounts[w.UserID]; ok {
				pw.Phone = acct.Phone
			}
			out = append(out, pw)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// ---- Investment positions ----

func (l *LedgerStore) CreateInvestment(p *models.Investment) error {
	return l.run(func(d *dataset) error {
		p.ID = d.nextID("investment")
		p.CreatedAt = time.Now()
		d.investments[p.ID] = *p
		return nil
	})
}

func (l *LedgerStore) GetInvestmentForUpdate(id uint) (*models.Investment, error) {
	var out models.Investment
	err := l.run(func(d *dataset) error {
		p, ok := d.investments[id]
		if !ok {
			return repositories.ErrInvestmentNotFound
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (l *LedgerStore) SaveInvestment(p *models.Investment) error {
	return l.run(func(d *dataset) error {
		if _, ok := d.investments[p.ID]; !ok {
			return repositories.ErrInvestmentNotFound
		}
		d.investments[p.ID] = *p
		return nil
	})
}

func (l *LedgerStore) ListActiveInvestments() ([]models.Investment, error) {
	var out []models.Investment
	_ = l.run(func(d *dataset) error {
		for _, p := range d.investments {
			if p.Status == models.InvestmentActive {
				out = append(out, p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (l *LedgerStore) ListInvestmentsByAccount(accountID uint) ([]models.Investment, error) {
	var out []models.Investment
	_ = l.run(func(d *dataset) error {
		for _, p := range d.investments {
			if p.UserID == accountID {
				out = append(out, p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (l *LedgerStore) InvestmentTotals() (*repositories.InvestmentTotals, error) {
	totals := &repositories.InvestmentTotals{}
	_ = l.run(func(d *dataset) error {
		investors := make(map[uint]struct{})
		for _, p := range d.investments {
			totals.TotalInvested = totals.TotalInvested.Add(p.Amount)
			totals.TotalProfit = totals.TotalProfit.Add(p.TotalProfit)
			if p.Status == models.InvestmentActive {
				totals.ActiveInvestments++
			}
			investors[p.UserID] = struct{}{}
		}
		totals.TotalInvestors = int64(len(investors))
		return nil
	})
	return totals, nil
}

// ---- Check-ins ----

func (l *LedgerStore) HasCheckin(accountID uint, day string) (bool, error) {
	var found bool
	_ = l.run(func(d *dataset) error {
		_, found = d.checkins[checkinKey(accountID, day)]
		return nil
	})
	return found, nil
}

func (l *LedgerStore) CreateCheckin(c *models.Checkin) error {
	return l.run(func(d *dataset) error {
		key := checkinKey(c.UserID, c.Day)
		if _, ok := d.checkins[key]; ok {
			return repositories.ErrDuplicateCheckin
		}
		c.ID = d.nextID("checkin")
		c.CreatedAt = time.Now()
		d.checkins[key] = *c
		return nil
	})
}
