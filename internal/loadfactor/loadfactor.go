// Package loadfactor derives hash table resize policies from a load level.
//
// The load level is the single independent variable of a benchmark sweep.
// Each level maps to a fixed Config; low levels keep tables sparse, high levels pack them densely.
package loadfactor

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	MinLevel = 1 // lowest valid load level
	MaxLevel = 9 // highest valid load level
)

// Config describes how aggressively a hash table resizes.
type Config struct {
	MinLoad      float64 // below this load a table may shrink
	TargetLoad   float64 // load a table aims for right after creation or resize
	MaxLoad      float64 // above this load a table grows
	GrowthFactor float64 // multiplicative factor applied to the capacity on growth
}

// levels holds the configs for MinLevel ... MaxLevel
var levels = [MaxLevel]Config{
	{MinLoad: 0.066, TargetLoad: 0.1, MaxLoad: 0.134, GrowthFactor: 2.0},
	{MinLoad: 0.133, TargetLoad: 0.2, MaxLoad: 0.267, GrowthFactor: 2.0},
	{MinLoad: 0.2, TargetLoad: 0.3, MaxLoad: 0.4, GrowthFactor: 2.0},
	{MinLoad: 0.266, TargetLoad: 0.4, MaxLoad: 0.534, GrowthFactor: 2.0},
	{MinLoad: 0.33, TargetLoad: 0.5, MaxLoad: 0.67, GrowthFactor: 2.0},
	{MinLoad: 0.4, TargetLoad: 0.6, MaxLoad: 0.8, GrowthFactor: 2.0},
	{MinLoad: 0.466, TargetLoad: 0.7, MaxLoad: 0.934, GrowthFactor: 2.0},

	// high loads need smaller growth steps, or a single resize undoes the savings
	{MinLoad: 0.64, TargetLoad: 0.8, MaxLoad: 0.96, GrowthFactor: 1.5},
	{MinLoad: 0.79, TargetLoad: 0.9, MaxLoad: 0.99, GrowthFactor: 1.25},
}

// Derive returns the config for the given load level.
// It panics if level is not within [MinLevel, MaxLevel].
func Derive(level int) Config {
	if level < MinLevel || level > MaxLevel {
		panic(fmt.Sprintf("loadfactor: level %d out of range [%d, %d]", level, MinLevel, MaxLevel))
	}
	return levels[level-1]
}

// Levels returns all valid load levels in ascending order.
func Levels() []int {
	all := make([]int, 0, MaxLevel-MinLevel+1)
	for level := MinLevel; level <= MaxLevel; level++ {
		all = append(all, level)
	}
	return all
}

var (
	errInvalidLevel   = errors.New("invalid load level")
	errDuplicateLevel = errors.New("duplicate load level")
)

// ParseLevels parses load levels from their decimal representation.
// If no values are given, returns all levels.
func ParseLevels(values ...string) ([]int, error) {
	if len(values) == 0 {
		return Levels(), nil
	}

	seen := make(map[int]struct{}, len(values))
	levels := make([]int, 0, len(values))

	var errs []error
	for _, value := range values {
		level, err := strconv.Atoi(value)
		if err != nil || level < MinLevel || level > MaxLevel {
			errs = append(errs, fmt.Errorf("%w: %q (must be within [%d, %d])", errInvalidLevel, value, MinLevel, MaxLevel))
			continue
		}
		if _, ok := seen[level]; ok {
			errs = append(errs, fmt.Errorf("%w: %d", errDuplicateLevel, level))
			continue
		}
		seen[level] = struct{}{}
		levels = append(levels, level)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return levels, nil
}

// Capacity returns the number of slots needed to hold expected entries at the target load.
// The result is always larger than expected.
func (cfg Config) Capacity(expected int) int {
	return int(float64(expected)/cfg.TargetLoad) + 1
}

// Dense reports if a table using this config should use a dense layout.
// Only a growth factor of exactly two keeps power-of-two capacities.
func (cfg Config) Dense() bool {
	return cfg.GrowthFactor != 2.0
}

var (
	errLoadRange   = errors.New("loads must be within (0, 1]")
	errLoadOrder   = errors.New("loads must satisfy min <= target <= max")
	errGrowthRange = errors.New("growth factor must be at least 1")
)

// Validate checks that cfg is a valid config.
func (cfg Config) Validate() error {
	for _, load := range [...]float64{cfg.MinLoad, cfg.TargetLoad, cfg.MaxLoad} {
		if !(load > 0 && load <= 1) {
			return fmt.Errorf("%w: got %v", errLoadRange, load)
		}
	}
	if cfg.MinLoad > cfg.TargetLoad || cfg.TargetLoad > cfg.MaxLoad {
		return errLoadOrder
	}
	if !(cfg.GrowthFactor >= 1) {
		return errGrowthRange
	}
	return nil
}

func (cfg Config) String() string {
	return fmt.Sprintf("load(min=%v, target=%v, max=%v, growth=%v)", cfg.MinLoad, cfg.TargetLoad, cfg.MaxLoad, cfg.GrowthFactor)
}
