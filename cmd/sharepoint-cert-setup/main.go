// Command sharepoint-cert-setup generates the self-signed certificate used by the SharePoint MCP server
// and prints the steps for registering it in Azure.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcp-sharepoint/cert-setup/cmd/sharepoint-cert-setup/app"
	"github.com/mcp-sharepoint/cert-setup/internal/handler/console"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	var setup *console.Setup

	fxApp := app.New(fx.Populate(&setup))
	if err := fxApp.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := setup.Run(ctx)
	stop()

	_ = zap.L().Sync()
	os.Exit(code)
}
