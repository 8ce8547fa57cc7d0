package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/andrescamacho/outpost-go/internal/application/trading/dtos"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
	"github.com/andrescamacho/outpost-go/internal/infrastructure/config"
)

// resolvePlayer resolves the acting player.
// Priority: --player flag > OUTPOST_PLAYER > user config default.
func resolvePlayer() (string, error) {
	if playerFlag != "" {
		return playerFlag, nil
	}
	if env := os.Getenv("OUTPOST_PLAYER"); env != "" {
		return env, nil
	}

	userConfigHandler, err := config.NewUserConfigHandler()
	if err != nil {
		return "", fmt.Errorf("no player specified and failed to load user config: %w", err)
	}
	userCfg, err := userConfigHandler.Load()
	if err != nil {
		return "", fmt.Errorf("no player specified and failed to load user config: %w", err)
	}
	if userCfg.DefaultPlayer != "" {
		return userCfg.DefaultPlayer, nil
	}

	return "", fmt.Errorf("no player specified: use --player, set OUTPOST_PLAYER, or run 'outpost config set-player'")
}

// resolveTerritory falls back to the stored default territory
func resolveTerritory(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	userConfigHandler, err := config.NewUserConfigHandler()
	if err != nil {
		return "", err
	}
	userCfg, err := userConfigHandler.Load()
	if err != nil {
		return "", err
	}
	if userCfg.DefaultTerritory == "" {
		return "", fmt.Errorf("--territory is required (or run 'outpost config set-territory')")
	}
	return userCfg.DefaultTerritory, nil
}

// parseAmounts parses "wood=10,stone=2" (or repeated flags) into a map
func parseAmounts(pairs []string) (map[string]int, error) {
	amounts := make(map[string]int)
	for _, raw := range splitPairs(pairs) {
		item, qty, err := splitPair(raw)
		if err != nil {
			return nil, err
		}
		units, err := strconv.Atoi(qty)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity in %q: %w", raw, err)
		}
		amounts[item] += units
	}
	return amounts, nil
}

// parseTradeLines parses "wood=10" or "wood=10@fine" lines in the given order
func parseTradeLines(pairs []string) ([]dtos.TradeItemDTO, error) {
	var lines []dtos.TradeItemDTO
	for _, raw := range splitPairs(pairs) {
		item, rest, err := splitPair(raw)
		if err != nil {
			return nil, err
		}
		qty, quality, _ := strings.Cut(rest, "@")
		units, err := strconv.Atoi(qty)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity in %q: %w", raw, err)
		}
		lines = append(lines, dtos.TradeItemDTO{ItemID: item, Quantity: units, Quality: quality})
	}
	return lines, nil
}

func splitPairs(pairs []string) []string {
	var out []string
	for _, p := range pairs {
		for _, part := range strings.Split(p, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func splitPair(raw string) (string, string, error) {
	item, qty, ok := strings.Cut(raw, "=")
	if !ok || strings.TrimSpace(item) == "" {
		return "", "", fmt.Errorf("expected item=quantity, got %q", raw)
	}
	return strings.TrimSpace(item), strings.TrimSpace(qty), nil
}

// formatQuantity renders "wood x10, stone x2" in item order
func formatQuantity(q shared.ResourceQuantity) string {
	if q.IsEmpty() {
		return "(none)"
	}
	parts := make([]string, 0, len(q))
	for _, item := range q.Items() {
		parts = append(parts, fmt.Sprintf("%s x%d", item, q[item]))
	}
	return strings.Join(parts, ", ")
}

// formatLines renders trade lines in their listed order
func formatLines(lines []dtos.TradeItemDTO) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		s := fmt.Sprintf("%s x%d", l.ItemID, l.Quantity)
		if l.Quality != "" {
			s += " (" + l.Quality + ")"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}

func formatRemaining(d time.Duration) string {
	if d <= 0 {
		return "done"
	}
	return d.Round(time.Second).String()
}
