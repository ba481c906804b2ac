package pipeline_test

import (
	"context"
	"fmt"

	"github.com/cellwarp/cellwarp/pkg/cache"
	"github.com/cellwarp/cellwarp/pkg/pipeline"
)

// A zero displacement scale keeps the warped set identical to the
// original, which makes the full pipeline easy to sanity check.
func ExampleRunner_Execute() {
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)

	result, err := runner.Execute(context.Background(), pipeline.Options{
		Seed:    10,
		Points:  8,
		Scale:   0, // no warping
		Formats: []string{pipeline.FormatSVG},
	})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println("warp preserved cells:", len(result.Original) == len(result.Warped))
	_, ok := result.Artifacts[pipeline.FormatSVG]
	fmt.Println("svg rendered:", ok)
	// Output:
	// warp preserved cells: true
	// svg rendered: true
}
