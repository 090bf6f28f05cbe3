package dialogue

import (
	"context"
	"fmt"
	"log/slog"

	"FlowCS/internal/lib/sl"
)

// Action identifiers understood by the dispatcher. Anything else falls
// through to the permissive default.
const (
	ActionQueryOrder     = "OrderAPI.query"
	ActionQueryProduct   = "ProductAPI.query"
	ActionChangePassword = "AccountAPI.change_password"
	ActionDeactivate     = "AccountAPI.deactivate"
	ActionComplaint      = "ComplaintAPI.submit"
	ActionControlDevice  = "HomeAPI.control_device"
	ActionQueryMarket    = "MarketAPI.query"
)

// Dispatcher maps action identifiers onto record store operations and
// normalizes every collaborator-specific return shape into an
// ActionResult.
type Dispatcher struct {
	store RecordStore
	log   *slog.Logger
}

// NewDispatcher creates a dispatcher over the given record store.
func NewDispatcher(store RecordStore, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		store: store,
		log:   log.With(sl.Module("dialogue.dispatcher")),
	}
}

// Execute runs one action with the session's current slot values. The
// returned error is a processing fault (store unreachable); business
// outcomes, including missing records and credential mismatches, are
// encoded in the result status.
func (d *Dispatcher) Execute(ctx context.Context, actionID string, slots map[string]string) (ActionResult, error) {
	d.log.Debug("dispatching action", slog.String("action", actionID))

	switch actionID {
	case ActionQueryOrder:
		return d.queryOrder(ctx, slots["order_id"])
	case ActionQueryProduct:
		return d.queryProduct(ctx, slots["product_name"])
	case ActionChangePassword:
		return d.boolOutcome(d.store.ChangePassword(ctx, slots["account_id"], slots["old_password"], slots["new_password"]))
	case ActionDeactivate:
		return d.boolOutcome(d.store.DeactivateAccount(ctx, slots["account_id"]))
	case ActionComplaint:
		return d.submitComplaint(ctx, slots["account_id"], slots["issue_description"])
	case ActionControlDevice:
		result, err := d.boolOutcome(d.store.SetDeviceState(ctx, slots["device_name"], slots["device_action"]))
		if err == nil && result.Succeeded() {
			result.Payload["device_name"] = slots["device_name"]
			result.Payload["device_action"] = slots["device_action"]
		}
		return result, err
	case ActionQueryMarket:
		return d.queryMarket(ctx, slots["stock_symbol"])
	}

	// Unknown identifiers never halt the flow.
	d.log.Warn("unknown action identifier", slog.String("action", actionID))
	return success(map[string]string{"message": "operation completed"}), nil
}

func (d *Dispatcher) queryOrder(ctx context.Context, orderID string) (ActionResult, error) {
	order, err := d.store.GetOrder(ctx, orderID)
	if err != nil {
		return ActionResult{}, fmt.Errorf("order lookup: %w", err)
	}
	if order == nil {
		return failure("order not found"), nil
	}
	return success(map[string]string{
		"status":       order.Status,
		"eta":          order.Eta,
		"product_name": order.ProductName,
	}), nil
}

func (d *Dispatcher) queryProduct(ctx context.Context, name string) (ActionResult, error) {
	product, err := d.store.GetProduct(ctx, name)
	if err != nil {
		return ActionResult{}, fmt.Errorf("product lookup: %w", err)
	}
	if product == nil {
		return failure("product not found"), nil
	}
	return success(map[string]string{
		"name":  product.Name,
		"price": product.Price,
		"stock": fmt.Sprintf("%d", product.Stock),
	}), nil
}

func (d *Dispatcher) submitComplaint(ctx context.Context, accountID, description string) (ActionResult, error) {
	if accountID == "" {
		accountID = "Guest"
	}
	refID, err := d.store.InsertComplaint(ctx, accountID, description)
	if err != nil {
		return ActionResult{}, fmt.Errorf("complaint submit: %w", err)
	}
	return success(map[string]string{"ref_id": refID}), nil
}

func (d *Dispatcher) queryMarket(ctx context.Context, symbol string) (ActionResult, error) {
	quote, err := d.store.GetQuote(ctx, symbol)
	if err != nil {
		return ActionResult{}, fmt.Errorf("quote lookup: %w", err)
	}
	if quote == nil {
		return failure("symbol not found"), nil
	}
	return success(map[string]string{
		"symbol": quote.Symbol,
		"price":  quote.Price,
		"trend":  quote.Trend,
	}), nil
}

func (d *Dispatcher) boolOutcome(ok bool, err error) (ActionResult, error) {
	if err != nil {
		return ActionResult{}, fmt.Errorf("record store: %w", err)
	}
	if !ok {
		return failure("operation rejected"), nil
	}
	return success(map[string]string{}), nil
}

func success(payload map[string]string) ActionResult {
	return ActionResult{Status: StatusSuccess, Payload: payload}
}

func failure(message string) ActionResult {
	return ActionResult{Status: StatusFailure, Payload: map[string]string{"message": message}}
}
