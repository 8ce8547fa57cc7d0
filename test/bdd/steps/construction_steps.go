package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/outpost-go/internal/application/construction/commands"
	"github.com/andrescamacho/outpost-go/internal/application/construction/dtos"
	"github.com/andrescamacho/outpost-go/internal/application/construction/queries"
	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/application/sweeper"
	"github.com/andrescamacho/outpost-go/test/helpers"
)

func (w *outpostWorld) buildingID(alias string) (string, error) {
	id, ok := w.buildings[alias]
	if !ok {
		return "", fmt.Errorf("no building named %q in this scenario", alias)
	}
	return id, nil
}

func (w *outpostWorld) playerStartsBuilding(player, template, territory, alias string) error {
	building, err := mediator.SendTyped[*dtos.BuildingDTO](helpers.As(player), w.env.Mediator, &commands.StartConstructionCommand{
		TemplateID:  template,
		TerritoryID: territory,
	})
	w.err = err
	if err == nil {
		w.buildings[alias] = building.ID
	}
	return nil
}

func (w *outpostWorld) playerTriesToStart(player, template, territory string) error {
	_, w.err = w.env.Mediator.Send(helpers.As(player), &commands.StartConstructionCommand{
		TemplateID:  template,
		TerritoryID: territory,
	})
	return nil
}

func (w *outpostWorld) playerUpgrades(player, alias string) error {
	id, err := w.buildingID(alias)
	if err != nil {
		return err
	}
	_, w.err = w.env.Mediator.Send(helpers.As(player), &commands.UpgradeBuildingCommand{BuildingID: id})
	return nil
}

func (w *outpostWorld) playerDemolishes(player, alias string) error {
	id, err := w.buildingID(alias)
	if err != nil {
		return err
	}
	_, w.err = w.env.Mediator.Send(helpers.As(player), &commands.DemolishBuildingCommand{BuildingID: id})
	return nil
}

func (w *outpostWorld) theSweeperRuns() error {
	_, w.err = w.env.Mediator.Send(context.Background(), &sweeper.SweepExpiredCommand{})
	return w.err
}

func (w *outpostWorld) observe(player, alias string) (*dtos.BuildingDTO, error) {
	id, err := w.buildingID(alias)
	if err != nil {
		return nil, err
	}
	return mediator.SendTyped[*dtos.BuildingDTO](helpers.As(player), w.env.Mediator, &queries.GetBuildingQuery{BuildingID: id})
}

func (w *outpostWorld) buildingShouldBeObservedAs(alias, player, status string) error {
	b, err := w.observe(player, alias)
	if err != nil {
		return err
	}
	observed := b.Status
	if b.IsComplete {
		observed = "ACTIVE"
	}
	if observed != status {
		return fmt.Errorf("expected %s to be observed as %s, got %s", alias, status, observed)
	}
	return nil
}

func (w *outpostWorld) buildingShouldBeStoredAs(alias, status string) error {
	id, err := w.buildingID(alias)
	if err != nil {
		return err
	}
	b, err := w.env.Repos.Buildings.FindByID(context.Background(), id)
	if err != nil {
		return err
	}
	if string(b.Status()) != status {
		return fmt.Errorf("expected %s to be stored as %s, got %s", alias, status, b.Status())
	}
	return nil
}

func (w *outpostWorld) buildingShouldBeAtLevel(alias string, level int) error {
	id, err := w.buildingID(alias)
	if err != nil {
		return err
	}
	b, err := w.env.Repos.Buildings.FindByID(context.Background(), id)
	if err != nil {
		return err
	}
	if b.Level() != level {
		return fmt.Errorf("expected %s at level %d, got %d", alias, level, b.Level())
	}
	return nil
}

func (w *outpostWorld) buildingShouldBeGone(alias string) error {
	_, err := w.observe("nobody", alias)
	if !errorKinds["building not found"](err) {
		return fmt.Errorf("expected %s to be gone, got %v", alias, err)
	}
	return nil
}

func (w *outpostWorld) buildingShouldReportProgress(alias, player string, percent int) error {
	b, err := w.observe(player, alias)
	if err != nil {
		return err
	}
	if got := int(b.Progress*100 + 0.5); got != percent {
		return fmt.Errorf("expected %s at %d%% progress, got %d%%", alias, percent, got)
	}
	return nil
}

func (w *outpostWorld) buildingShouldHaveSecondsRemaining(alias, player string, seconds int) error {
	b, err := w.observe(player, alias)
	if err != nil {
		return err
	}
	if want := time.Duration(seconds) * time.Second; b.Remaining != want {
		return fmt.Errorf("expected %s to have %s remaining, got %s", alias, want, b.Remaining)
	}
	return nil
}

func (w *outpostWorld) territoryShouldHaveBuildings(territory string, count int) error {
	resp, err := mediator.SendTyped[*queries.ListTerritoryBuildingsResponse](helpers.As("observer"), w.env.Mediator, &queries.ListTerritoryBuildingsQuery{TerritoryID: territory})
	if err != nil {
		return err
	}
	if len(resp.Buildings) != count {
		return fmt.Errorf("expected %d buildings in %s, got %d", count, territory, len(resp.Buildings))
	}
	return nil
}

func registerConstructionSteps(sc *godog.ScenarioContext, w *outpostWorld) {
	sc.Step(`^player "([^"]*)" starts a "([^"]*)" in "([^"]*)" as "([^"]*)"$`, w.playerStartsBuilding)
	sc.Step(`^player "([^"]*)" tries to start a "([^"]*)" in "([^"]*)"$`, w.playerTriesToStart)
	sc.Step(`^player "([^"]*)" upgrades "([^"]*)"$`, w.playerUpgrades)
	sc.Step(`^player "([^"]*)" demolishes "([^"]*)"$`, w.playerDemolishes)
	sc.Step(`^the sweeper runs$`, w.theSweeperRuns)

	sc.Step(`^"([^"]*)" should be observed by "([^"]*)" as "([^"]*)"$`, func(alias, player, status string) error {
		return w.buildingShouldBeObservedAs(alias, player, status)
	})
	sc.Step(`^"([^"]*)" should be stored as "([^"]*)"$`, w.buildingShouldBeStoredAs)
	sc.Step(`^"([^"]*)" should be at level (\d+)$`, w.buildingShouldBeAtLevel)
	sc.Step(`^"([^"]*)" should no longer exist$`, w.buildingShouldBeGone)
	sc.Step(`^"([^"]*)" should report (\d+)% progress to "([^"]*)"$`, func(alias string, percent int, player string) error {
		return w.buildingShouldReportProgress(alias, player, percent)
	})
	sc.Step(`^"([^"]*)" should have (\d+) seconds remaining for "([^"]*)"$`, func(alias string, seconds int, player string) error {
		return w.buildingShouldHaveSecondsRemaining(alias, player, seconds)
	})
	sc.Step(`^territory "([^"]*)" should have (\d+) buildings?$`, w.territoryShouldHaveBuildings)
}
