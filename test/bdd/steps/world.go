package steps

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/outpost-go/internal/application/setup"
	"github.com/andrescamacho/outpost-go/internal/domain/catalog"
	"github.com/andrescamacho/outpost-go/internal/domain/construction"
	"github.com/andrescamacho/outpost-go/internal/domain/ledger"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
	"github.com/andrescamacho/outpost-go/internal/domain/trading"
	"github.com/andrescamacho/outpost-go/test/helpers"
)

// outpostWorld holds state shared by every step of one scenario
type outpostWorld struct {
	env *helpers.Env
	err error

	buildings map[string]string // alias -> building id
	offers    map[string]string // alias -> offer id
	history   map[string]string // offer alias -> history id
}

func (w *outpostWorld) reset() error {
	w.close()
	env, err := helpers.BuildEnv(setup.DefaultOptions())
	if err != nil {
		return err
	}
	w.env = env
	w.err = nil
	w.buildings = make(map[string]string)
	w.offers = make(map[string]string)
	w.history = make(map[string]string)
	return nil
}

func (w *outpostWorld) close() {
	if w.env != nil {
		_ = w.env.Close()
		w.env = nil
	}
}

// ============================================================================
// Inventory Steps
// ============================================================================

func (w *outpostWorld) playerHolds(player, amounts string) error {
	parsed, err := parseAmounts(amounts)
	if err != nil {
		return err
	}
	ref := ledger.Reference{Reason: ledger.ReasonGrant, ID: "scenario"}
	return w.env.Ledger.Credit(context.Background(), shared.MustNewPlayerID(player), parsed, ref)
}

func (w *outpostWorld) playerShouldHold(player, amounts string) error {
	want, err := parseAmounts(amounts)
	if err != nil {
		return err
	}
	got, err := w.env.Ledger.Inventory(context.Background(), shared.MustNewPlayerID(player))
	if err != nil {
		return err
	}
	if !want.Equals(got) {
		return fmt.Errorf("expected %s to hold %s, got %s", player, want, got)
	}
	return nil
}

func (w *outpostWorld) playerShouldHoldNothing(player string) error {
	got, err := w.env.Ledger.Inventory(context.Background(), shared.MustNewPlayerID(player))
	if err != nil {
		return err
	}
	if !got.IsEmpty() {
		return fmt.Errorf("expected %s to hold nothing, got %s", player, got)
	}
	return nil
}

// ============================================================================
// Clock Steps
// ============================================================================

func (w *outpostWorld) secondsPass(seconds int) error {
	w.env.Clock.Advance(time.Duration(seconds) * time.Second)
	return nil
}

func (w *outpostWorld) minutesPass(minutes int) error {
	w.env.Clock.Advance(time.Duration(minutes) * time.Minute)
	return nil
}

// ============================================================================
// Outcome Steps
// ============================================================================

func (w *outpostWorld) theRequestSucceeds() error {
	if w.err != nil {
		return fmt.Errorf("expected success, got %w", w.err)
	}
	return nil
}

func (w *outpostWorld) theRequestFailsWith(kind string) error {
	if w.err == nil {
		return fmt.Errorf("expected %q error, got success", kind)
	}
	match, ok := errorKinds[kind]
	if !ok {
		return fmt.Errorf("unknown error kind %q", kind)
	}
	if !match(w.err) {
		return fmt.Errorf("expected %q error, got %T: %v", kind, w.err, w.err)
	}
	return nil
}

func is[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}

var errorKinds = map[string]func(error) bool{
	"insufficient resources":  is[*ledger.InsufficientResourcesError],
	"template not found":      is[*catalog.TemplateNotFoundError],
	"max buildings reached":   is[*construction.MaxBuildingsReachedError],
	"max level reached":       is[*construction.MaxLevelReachedError],
	"building not active":     is[*construction.NotActiveError],
	"building not found":      is[*construction.BuildingNotFoundError],
	"permission denied":       is[*shared.PermissionDeniedError],
	"validation":              is[*shared.ValidationError],
	"offer expired":           is[*trading.OfferExpiredError],
	"offer not active":        is[*trading.OfferNotActiveError],
	"cannot accept own offer": is[*trading.CannotAcceptOwnOfferError],
	"insufficient items":      is[*trading.InsufficientItemsError],
	"too many active offers":  is[*trading.TooManyActiveOffersError],
	"already rated":           is[*trading.AlreadyRatedError],
}

// parseAmounts reads "wood=10, stone=5"
func parseAmounts(raw string) (shared.ResourceQuantity, error) {
	out := make(map[string]int)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		item, qty, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("invalid amount %q", part)
		}
		n, err := strconv.Atoi(strings.TrimSpace(qty))
		if err != nil {
			return nil, fmt.Errorf("invalid quantity in %q: %w", part, err)
		}
		out[strings.TrimSpace(item)] += n
	}
	return shared.NewResourceQuantity(out)
}

// InitializeOutpostScenario registers every gameplay step
func InitializeOutpostScenario(sc *godog.ScenarioContext) {
	w := &outpostWorld{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, w.reset()
	})
	sc.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		w.close()
		return ctx, nil
	})

	sc.Step(`^player "([^"]*)" holds "([^"]*)"$`, w.playerHolds)
	sc.Step(`^player "([^"]*)" should hold "([^"]*)"$`, w.playerShouldHold)
	sc.Step(`^player "([^"]*)" should hold nothing$`, w.playerShouldHoldNothing)
	sc.Step(`^(\d+) seconds pass$`, w.secondsPass)
	sc.Step(`^(\d+) minutes? pass(?:es)?$`, w.minutesPass)
	sc.Step(`^the request succeeds$`, w.theRequestSucceeds)
	sc.Step(`^the request fails with "([^"]*)"$`, w.theRequestFailsWith)

	registerConstructionSteps(sc, w)
	registerTradeSteps(sc, w)
}
