package render

import (
	"hash/fnv"

	"github.com/i474232898/climate-scenario-dashboard/internal/climate"
)

// category10 is the d3 categorical palette.
var category10 = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// ScenarioColor returns the colour of a scenario. The mapping depends only on
// the scenario identifier, so a scenario keeps its colour across renders.
func ScenarioColor(s climate.Scenario) string {
	for i, k := range climate.KnownScenarios {
		if k == s {
			return category10[i]
		}
	}
	// Unknown scenarios share the slots the known ones do not use.
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	free := category10[len(climate.KnownScenarios):]
	return free[h.Sum32()%uint32(len(free))]
}
