package apply

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/logr"
)

// InstallSignalHandler cancels ctx on the first SIGINT/SIGTERM, giving
// the orchestrator a chance to roll back an in-flight checkpoint
// instead of leaving it to auto-expire; a second signal forces an
// immediate exit (grounded on
// cmd/zstack-ovnkube-controller/main.go's setupSignalHandler).
func InstallSignalHandler(log logr.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info("received signal, initiating rollback", "signal", sig.String())
		cancel()

		sig = <-sigCh
		log.Info("received second signal, forcing exit", "signal", sig.String())
		os.Exit(1)
	}()

	return ctx, cancel
}
