// Command streamgraph loads and queries stream graph documents.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fur0rem/streamgraph/cmd/cli/cmd"
	"github.com/fur0rem/streamgraph/pkg/telemetry"
)

func main() {
	ctx := context.Background()

	shutdown, err := telemetry.Init(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: failed to initialize, continuing without tracing: %v\n", err)
		shutdown = func(context.Context) error { return nil }
	}
	defer shutdown(ctx)

	cmd.Execute()
}
