package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/piorhaii05/eatup/internal/checkout/domain"
	"github.com/piorhaii05/eatup/pkg/apperr"
	"github.com/piorhaii05/eatup/pkg/localstore"
	"github.com/piorhaii05/eatup/pkg/staleguard"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNoUser              = errors.New("no signed-in user")
	ErrEmptyItems          = errors.New("no items to order")
	ErrMultipleRestaurants = errors.New("items span several restaurants")
	ErrNoAddress           = errors.New("no default address")
	ErrNoBank              = errors.New("no default bank card")
	ErrNoPaymentURL        = errors.New("payment provider returned no url")
	ErrOpenFailed          = errors.New("could not open the payment page")
	ErrStale               = errors.New("result discarded: view left focus")
)

// followupTimeout bounds how long scheduling follow-ups may hold up an order
// that is already placed.
const followupTimeout = 5 * time.Second

type Deps struct {
	Orders   OrderAPI
	Payments PaymentAPI
	Accounts AccountReader
	Vouchers VoucherSource
	Users    UserResolver
	Store    localstore.Store
	// Opener may be nil, in which case the payment URL is only returned to
	// the caller.
	Opener ExternalOpener
	// After may be nil.
	After AfterOrder
}

// Orchestrator drives one checkout screen through its states.
type Orchestrator struct {
	deps         Deps
	shippingFee  int64
	afterTimeout time.Duration
	now          func() time.Time
	log          *slog.Logger

	guard staleguard.Guard

	mu         sync.Mutex
	state      domain.State
	method     domain.PaymentMethod
	lines      []domain.Line
	userID     string
	address    *Address
	bank       *BankCard
	voucher    *Discount
	paymentURL string
	orderID    string
	lastErr    error
}

func NewOrchestrator(deps Deps, shippingFee int64, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		deps:         deps,
		shippingFee:  shippingFee,
		afterTimeout: followupTimeout,
		now:          time.Now,
		log:          log.With("component", "checkout"),
		state:        domain.StateLoading,
		method:       domain.PaymentCOD,
	}
}

// fire must be called with mu held.
func (o *Orchestrator) fire(e domain.Event) error {
	next, err := domain.Transition(o.state, e)
	if err != nil {
		return err
	}
	o.log.Debug("checkout state", slog.String("from", string(o.state)), slog.String("to", string(next)))
	o.state = next
	return nil
}

// Prepare (re)loads what checkout needs to become Ready. A nil lines slice
// keeps the lines of the previous Prepare, as when the screen refocuses.
// A refocus while a wallet payment is outstanding leaves everything as is;
// only the payment return moves checkout on from there.
func (o *Orchestrator) Prepare(ctx context.Context, lines []domain.Line) error {
	o.mu.Lock()
	if o.state == domain.StateAwaitingExternalPayment && lines == nil {
		o.mu.Unlock()
		return nil
	}
	if o.state != domain.StateLoading {
		if err := o.fire(domain.EventReload); err != nil {
			o.mu.Unlock()
			return err
		}
	}
	if lines != nil {
		o.lines = append([]domain.Line(nil), lines...)
		o.voucher = nil
	}
	o.orderID, o.paymentURL, o.lastErr = "", "", nil
	o.mu.Unlock()

	ticket := o.guard.Begin()

	userID, err := o.deps.Users.CurrentUserID(ctx)
	if err != nil {
		o.log.Info("checkout without user", slog.Any("err", err))
		userID = ""
	}

	var (
		addr             Address
		bank             BankCard
		hasAddr, hasBank bool
	)
	if userID != "" {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			a, ok, err := o.deps.Accounts.DefaultAddress(gctx, userID)
			if err != nil {
				return fmt.Errorf("failed to load default address: %w", err)
			}
			addr, hasAddr = a, ok
			return nil
		})
		g.Go(func() error {
			b, ok, err := o.deps.Accounts.DefaultBank(gctx, userID)
			if err != nil {
				return fmt.Errorf("failed to load default bank: %w", err)
			}
			bank, hasBank = b, ok
			return nil
		})
		if err := g.Wait(); err != nil {
			o.mu.Lock()
			defer o.mu.Unlock()
			if !ticket.Current() {
				return ErrStale
			}
			o.lastErr = err
			_ = o.fire(domain.EventFail)
			return err
		}
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if !ticket.Current() {
		return ErrStale
	}

	o.userID = userID
	o.address, o.bank = nil, nil
	if hasAddr {
		o.address = &addr
	}
	if hasBank {
		o.bank = &bank
	}
	o.takeVoucherLocked(ctx)

	return o.fire(domain.EventLoaded)
}

// takeVoucherLocked consumes a voucher left by the picker. One scoped to
// another restaurant is dropped.
func (o *Orchestrator) takeVoucherLocked(ctx context.Context) {
	if o.deps.Vouchers == nil {
		return
	}
	d, ok, err := o.deps.Vouchers.TakeApplied(ctx)
	if err != nil {
		o.log.Warn("failed to read applied voucher", slog.Any("err", err))
		return
	}
	if !ok {
		return
	}
	if rid := restaurantOf(o.lines); d.RestaurantID != "" && rid != "" && d.RestaurantID != rid {
		o.log.Warn("dropping voucher for another restaurant",
			slog.String("voucher_id", d.VoucherID),
			slog.String("restaurant_id", d.RestaurantID),
		)
		return
	}
	o.voucher = &d
}

// Blur is called when the screen loses focus.
func (o *Orchestrator) Blur() {
	o.guard.Invalidate()
}

func (o *Orchestrator) State() domain.State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) SetPaymentMethod(m domain.PaymentMethod) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	switch o.state {
	case domain.StateSubmitting, domain.StateAwaitingExternalPayment:
		return fmt.Errorf("%w: payment method is fixed while %s", domain.ErrIllegalTransition, o.state)
	}
	o.method = m
	return nil
}

func (o *Orchestrator) ClearVoucher() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.voucher = nil
}

func (o *Orchestrator) Totals() domain.Totals {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.totalsLocked()
}

func (o *Orchestrator) totalsLocked() domain.Totals {
	var discount int64
	if o.voucher != nil {
		discount = max(0, o.voucher.Amount)
	}
	return domain.ComputeTotals(o.lines, o.shippingFee, discount)
}

// Validate reports the first missing precondition for submission, checked in
// this order: signed-in user, non-empty items, a single restaurant across the
// items, default address, then a bank card when the method needs one. The
// single-restaurant check runs before the address check.
func (o *Orchestrator) Validate() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.validateLocked()
}

func (o *Orchestrator) validateLocked() error {
	if o.userID == "" {
		return apperr.Invalid(ErrNoUser, "Please sign in to place an order")
	}
	if len(o.lines) == 0 {
		return apperr.Invalid(ErrEmptyItems, "Your order has no items")
	}
	if distinctRestaurants(o.lines) > 1 {
		return apperr.Invalid(ErrMultipleRestaurants, "You can only order from one restaurant at a time")
	}
	if o.address == nil {
		return apperr.Invalid(ErrNoAddress, "Please add a delivery address")
	}
	if o.method.RequiresBank() && o.bank == nil {
		return apperr.Invalid(ErrNoBank, "Please add a bank card")
	}
	return nil
}

func (o *Orchestrator) draftLocked(status string) domain.OrderDraft {
	totals := o.totalsLocked()
	items := make([]domain.OrderItem, 0, len(o.lines))
	for _, l := range o.lines {
		items = append(items, domain.OrderItem{
			ProductID:    l.ProductID,
			Quantity:     l.Quantity,
			PriceAtOrder: l.Price,
		})
	}

	d := domain.OrderDraft{
		UserID:         o.userID,
		RestaurantID:   restaurantOf(o.lines),
		AddressID:      o.address.ID,
		PaymentMethod:  o.method,
		Items:          items,
		TotalAmount:    totals.Total,
		ShippingFee:    totals.ShippingFee,
		DiscountAmount: totals.Discount,
		Status:         status,
	}
	if o.method.RequiresBank() && o.bank != nil {
		id := o.bank.ID
		d.BankID = &id
	}
	if o.voucher != nil {
		id := o.voucher.VoucherID
		d.VoucherID = &id
	}
	return d
}

type SubmitResult struct {
	State      domain.State `json:"state"`
	OrderID    string       `json:"order_id,omitempty"`
	PaymentURL string       `json:"payment_url,omitempty"`
}

// Submit places the order. Validation failures leave the state untouched and
// never reach the backend.
func (o *Orchestrator) Submit(ctx context.Context) (SubmitResult, error) {
	o.mu.Lock()
	if _, err := domain.Transition(o.state, domain.EventSubmit); err != nil {
		o.mu.Unlock()
		return SubmitResult{}, err
	}
	if err := o.validateLocked(); err != nil {
		o.mu.Unlock()
		return SubmitResult{}, err
	}

	method := o.method
	status := domain.StatusPending
	if method.Redirect() {
		status = domain.StatusProcessing
	}
	draft := o.draftLocked(status)
	_ = o.fire(domain.EventSubmit)
	o.lastErr = nil
	o.mu.Unlock()

	if method.Redirect() {
		return o.submitRedirect(ctx, draft)
	}
	return o.submitDirect(ctx, draft)
}

func (o *Orchestrator) submitDirect(ctx context.Context, draft domain.OrderDraft) (SubmitResult, error) {
	orderID, err := o.deps.Orders.CreateOrder(ctx, draft, "")
	if err != nil {
		err = fmt.Errorf("failed to create order: %w", err)
		o.fail(err)
		return SubmitResult{}, err
	}

	o.afterOrder(ctx, orderID, draft)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.orderID = orderID
	o.voucher = nil
	_ = o.fire(domain.EventPlaced)

	o.log.Info("order placed",
		slog.String("order_id", orderID),
		slog.String("payment_method", string(draft.PaymentMethod)),
		slog.Int64("total", draft.TotalAmount),
	)
	return SubmitResult{State: o.state, OrderID: orderID}, nil
}

func (o *Orchestrator) submitRedirect(ctx context.Context, draft domain.OrderDraft) (SubmitResult, error) {
	pending := domain.PendingOrder{Draft: draft, CreatedAt: o.now().UTC()}
	if err := localstore.Put(o.deps.Store, domain.PendingKey, pending); err != nil {
		err = fmt.Errorf("failed to save pending order: %w", err)
		o.fail(err)
		return SubmitResult{}, err
	}

	intent, err := o.deps.Payments.CreateIntent(ctx, draft.TotalAmount, draft)
	if err == nil && intent.OrderURL == "" {
		err = ErrNoPaymentURL
	}
	if err != nil {
		err = fmt.Errorf("failed to create payment: %w", err)
		o.fail(err)
		return SubmitResult{}, err
	}

	if err := bindPending(o.deps.Store, intent); err != nil {
		o.log.Error("failed to bind pending order", slog.String("app_trans_id", intent.AppTransID), slog.Any("err", err))
	}

	if o.deps.Opener != nil {
		if err := o.deps.Opener.Open(ctx, intent.OrderURL); err != nil {
			err = fmt.Errorf("%w: %v", ErrOpenFailed, err)
			o.fail(err)
			return SubmitResult{State: domain.StateFailed, PaymentURL: intent.OrderURL}, err
		}
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.paymentURL = intent.OrderURL
	_ = o.fire(domain.EventRedirected)

	o.log.Info("awaiting external payment",
		slog.String("app_trans_id", intent.AppTransID),
		slog.Int64("amount", draft.TotalAmount),
	)
	return SubmitResult{State: o.state, PaymentURL: intent.OrderURL}, nil
}

type Outcome string

const (
	OutcomeNothingPending Outcome = "nothing_pending"
	OutcomePaid           Outcome = "paid"
	OutcomeDeclined       Outcome = "declined"
)

type ReconcileResult struct {
	Outcome    Outcome `json:"outcome"`
	AppTransID string  `json:"app_trans_id"`
	OrderID    string  `json:"order_id,omitempty"`
	Message    string  `json:"message,omitempty"`
}

// Reconcile settles a redirect payment from the provider's return URL. The
// pending record is claimed atomically for the returned transaction, so a
// repeated return for the same payment finds nothing and creates no order.
func (o *Orchestrator) Reconcile(ctx context.Context, returnURL string) (ReconcileResult, error) {
	ret, err := domain.ParsePaymentReturn(returnURL)
	if err != nil {
		return ReconcileResult{}, apperr.Invalid(err, "Invalid payment return link")
	}
	res := ReconcileResult{AppTransID: ret.AppTransID}
	log := o.log.With(slog.String("app_trans_id", ret.AppTransID))

	rec, ok, err := localstore.TakeIf(o.deps.Store, domain.PendingKey, func(p domain.PendingOrder) bool {
		return p.Claims(ret.AppTransID)
	})
	if err != nil {
		return res, fmt.Errorf("failed to read pending order: %w", err)
	}
	if !ok {
		log.Info("nothing to reconcile")
		res.Outcome = OutcomeNothingPending
		return res, nil
	}

	status, err := o.deps.Payments.CheckStatus(ctx, ret.AppTransID)
	if err != nil {
		o.restorePending(rec)
		err = fmt.Errorf("failed to check payment status: %w", err)
		o.failAwaiting(err)
		return res, err
	}

	if !status.Succeeded() {
		log.Warn("payment not successful",
			slog.Int("return_code", status.ReturnCode),
			slog.String("return_message", status.ReturnMessage),
		)
		o.failAwaiting(fmt.Errorf("payment not successful: %s", status.ReturnMessage))
		res.Outcome = OutcomeDeclined
		res.Message = status.ReturnMessage
		return res, nil
	}

	draft := rec.Draft
	draft.Status = domain.StatusPaid
	orderID, err := o.deps.Orders.CreateOrder(ctx, draft, ret.AppTransID)
	if err != nil {
		o.restorePending(rec)
		err = fmt.Errorf("failed to create paid order: %w", err)
		o.failAwaiting(err)
		return res, err
	}

	o.afterOrder(ctx, orderID, draft)

	o.mu.Lock()
	o.orderID = orderID
	if o.state == domain.StateAwaitingExternalPayment {
		o.voucher = nil
		_ = o.fire(domain.EventPlaced)
	}
	o.mu.Unlock()

	log.Info("paid order created", slog.String("order_id", orderID))
	res.Outcome = OutcomePaid
	res.OrderID = orderID
	return res, nil
}

// PendingOrder exposes a redirect payment that was started but never
// reconciled.
func (o *Orchestrator) PendingOrder() (domain.PendingOrder, bool, error) {
	return localstore.Get[domain.PendingOrder](o.deps.Store, domain.PendingKey)
}

// AbandonPending discards the unreconciled redirect payment. A later return
// for it is then a no-op.
func (o *Orchestrator) AbandonPending() error {
	p, ok, err := localstore.Take[domain.PendingOrder](o.deps.Store, domain.PendingKey)
	if err != nil {
		return err
	}
	if ok {
		o.log.Info("pending order abandoned", slog.String("app_trans_id", p.AppTransID))
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == domain.StateAwaitingExternalPayment {
		_ = o.fire(domain.EventFail)
	}
	return nil
}

type View struct {
	State         domain.State         `json:"state"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	Lines         []domain.Line        `json:"lines"`
	Address       *Address             `json:"address"`
	Bank          *BankCard            `json:"bank"`
	Voucher       *Discount            `json:"voucher"`
	Totals        domain.Totals        `json:"totals"`
	PaymentURL    string               `json:"payment_url,omitempty"`
	OrderID       string               `json:"order_id,omitempty"`
	Error         string               `json:"error,omitempty"`
}

func (o *Orchestrator) View() View {
	o.mu.Lock()
	defer o.mu.Unlock()
	v := View{
		State:         o.state,
		PaymentMethod: o.method,
		Lines:         append([]domain.Line(nil), o.lines...),
		Address:       o.address,
		Bank:          o.bank,
		Voucher:       o.voucher,
		Totals:        o.totalsLocked(),
		PaymentURL:    o.paymentURL,
		OrderID:       o.orderID,
	}
	if o.lastErr != nil {
		v.Error = apperr.UserMessage(o.lastErr)
	}
	return v
}

func (o *Orchestrator) fail(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lastErr = err
	_ = o.fire(domain.EventFail)
	o.log.Error("checkout failed", slog.Any("err", err))
}

func (o *Orchestrator) failAwaiting(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != domain.StateAwaitingExternalPayment {
		return
	}
	o.lastErr = err
	_ = o.fire(domain.EventFail)
}

// afterOrder failures are logged only; the order stands.
func (o *Orchestrator) afterOrder(ctx context.Context, orderID string, draft domain.OrderDraft) {
	if o.deps.After == nil {
		return
	}
	placed := PlacedOrder{
		OrderID:    orderID,
		UserID:     draft.UserID,
		ProductIDs: draft.ProductIDs(),
	}
	if draft.VoucherID != nil {
		placed.VoucherID = *draft.VoucherID
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.afterTimeout)
	defer cancel()
	if err := o.deps.After.OrderPlaced(ctx, placed); err != nil {
		o.log.Error("failed to schedule order follow-ups",
			slog.String("order_id", orderID),
			slog.Any("err", err),
		)
	}
}

func (o *Orchestrator) restorePending(rec domain.PendingOrder) {
	if _, err := localstore.PutIfAbsent(o.deps.Store, domain.PendingKey, rec); err != nil {
		o.log.Error("failed to restore pending order",
			slog.String("app_trans_id", rec.AppTransID),
			slog.Any("err", err),
		)
	}
}

func restaurantOf(lines []domain.Line) string {
	if len(lines) == 0 {
		return ""
	}
	return lines[0].RestaurantID
}

func distinctRestaurants(lines []domain.Line) int {
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		seen[l.RestaurantID] = struct{}{}
	}
	return len(seen)
}
