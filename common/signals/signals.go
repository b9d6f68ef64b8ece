// Package signals terminates the process cleanly on interrupt.
package signals

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/oramatt/registration-app/common/log"
	"github.com/oramatt/registration-app/common/util"
)

// Handle blocks until an interrupt or termination signal arrives, then logs
// and exits. Run it in its own goroutine from main.
func Handle() {
	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Logvf(log.Always, "signal '%v' received; exiting", sig)
	os.Exit(util.ExitKill)
}
