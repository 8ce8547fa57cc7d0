package construction

import "fmt"

// BuildingNotFoundError indicates the building id does not exist
type BuildingNotFoundError struct {
	BuildingID string
}

func (e *BuildingNotFoundError) Error() string {
	return fmt.Sprintf("building not found: %s", e.BuildingID)
}

// MaxBuildingsReachedError indicates a territory already holds the template's cap
type MaxBuildingsReachedError struct {
	TemplateID  string
	TerritoryID string
	Limit       int
}

func (e *MaxBuildingsReachedError) Error() string {
	return fmt.Sprintf("territory %s already has the maximum of %d %s buildings", e.TerritoryID, e.Limit, e.TemplateID)
}

// MaxLevelReachedError indicates a building is at its template's max level
type MaxLevelReachedError struct {
	BuildingID string
	Limit      int
}

func (e *MaxLevelReachedError) Error() string {
	return fmt.Sprintf("building %s is already at max level %d", e.BuildingID, e.Limit)
}

// NotActiveError indicates the building is still under construction
type NotActiveError struct {
	BuildingID string
	Status     BuildingStatus
}

func (e *NotActiveError) Error() string {
	return fmt.Sprintf("building %s is not active (status %s)", e.BuildingID, e.Status)
}
