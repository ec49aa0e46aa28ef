package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/partrace/partrace/internal/demo"
)

var (
	gendataOut   string
	gendataStart int64
)

var gendataCmd = &cobra.Command{
	Use:   "gendata",
	Short: "Generate demo trace events as a JSON file",
	Run:   runGendata,
}

func init() {
	gendataCmd.Flags().StringVar(&gendataOut, "out", "events.json", "Output file path")
	gendataCmd.Flags().Int64Var(&gendataStart, "start-time", 0, "Unix timestamp for the first event (0 = 24h ago)")
}

func runGendata(cmd *cobra.Command, args []string) {
	start := gendataStart
	if start == 0 {
		start = time.Now().Add(-24 * time.Hour).Unix()
	}

	events := demo.GetDemoEvents(start)

	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		HandleError(err, "Failed to encode events")
	}
	if err := os.WriteFile(gendataOut, data, 0o644); err != nil {
		HandleError(err, "Failed to write events file")
	}

	fmt.Printf("Wrote %d events to %s\n", len(events), gendataOut)
}
